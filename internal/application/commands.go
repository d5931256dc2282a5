package application

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePickTaskCommand represents the command to create a new pick task
type CreatePickTaskCommand struct {
	CustomerOrderID string
	BatchID         string
	Priority        string
	DueDate         time.Time
	Items           []PickTaskItemInput
}

// PickTaskItemInput is one requested pick line
type PickTaskItemInput struct {
	OrderItemID  string
	SKU          string
	ProductName  string
	Quantity     int
	LocationID   string
	LocationName string
}

// UpdatePickTaskStatusCommand drives a pick task through its lifecycle.
// Actor is the authenticated caller and the default assignee.
type UpdatePickTaskStatusCommand struct {
	TaskID     string
	Status     string
	AssignedTo string
	Actor      string
}

// CompletePickItemCommand records the outcome of picking one item. A zero
// picked quantity marks the item unavailable.
type CompletePickItemCommand struct {
	ItemID         string
	PickedQuantity int
	LocationID     string
	ItemCode       string
	LocationCode   string
	Notes          string
}

// MarkItemUnavailableCommand marks a pick item as not found
type MarkItemUnavailableCommand struct {
	ItemID string
	Notes  string
}

// VerifyScanCommand checks scans for an item without recording a pick
type VerifyScanCommand struct {
	ItemID       string
	Simulate     bool
	ItemCode     string
	LocationCode string
}

// CreatePackTaskCommand represents the command to create a pack task
type CreatePackTaskCommand struct {
	CustomerOrderID string
	PickTaskID      string
	Priority        string
	Items           []PackTaskItemInput
}

// PackTaskItemInput is one line to pack
type PackTaskItemInput struct {
	SKU         string
	ProductName string
	Quantity    int
}

// UpdatePackTaskStatusCommand drives a pack task through its lifecycle
type UpdatePackTaskStatusCommand struct {
	TaskID     string
	Status     string
	AssignedTo string
	Actor      string
}

// CreatePackageCommand adds a package to a pack task
type CreatePackageCommand struct {
	PackTaskID    string
	PackageType   string
	Length        float64
	Width         float64
	Height        float64
	DimensionUnit string
	Weight        float64
	WeightUnit    string
}

// PackItemCommand places a pack item into a package. A zero quantity packs
// the full item quantity.
type PackItemCommand struct {
	ItemID    string
	PackageID string
	Quantity  int
}

// CreateOrderCommand represents the command to create an order
type CreateOrderCommand struct {
	OrderNumber      string
	CustomerName     string
	CustomerType     string
	CustomerLocation string
	CustomerEmail    string
	Priority         string
	Notes            string
	ShippingAddress  *AddressDTO
	Items            []OrderItemInput
}

// OrderItemInput is one requested order line
type OrderItemInput struct {
	SKU         string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	LocationID  string
}

// UpdateOrderCommand patches an order. Nil fields are left unchanged; a
// non-empty status is applied after the other fields.
type UpdateOrderCommand struct {
	OrderID          string
	Status           string
	CustomerName     *string
	CustomerEmail    *string
	CustomerLocation *string
	Priority         *string
	PaymentStatus    *string
	Notes            *string
	ShippingAddress  *AddressDTO
	Items            []OrderItemInput
}

// CreateReturnCommand represents the command to request a return
type CreateReturnCommand struct {
	OrderID        string
	Reason         string
	ReturnMethod   string
	ResolutionType string
	Notes          string
	Items          []ReturnLineInput
}

// ReturnLineInput is one requested return line
type ReturnLineInput struct {
	OrderItemID string
	Quantity    int
	Condition   string
}

// UpdateReturnStatusCommand moves a return along its lifecycle
type UpdateReturnStatusCommand struct {
	ReturnID string
	Status   string
	Notes    string
}

// CreateCycleCountCommand schedules a cycle count
type CreateCycleCountCommand struct {
	Name           string
	CountingMethod string
	ScheduledDate  time.Time
	Notes          string
	Items          []CycleCountItemInput
}

// CycleCountItemInput is one sku at one location to count
type CycleCountItemInput struct {
	LocationID       string
	SKU              string
	ProductName      string
	ExpectedQuantity int
}

// UpdateCycleCountStatusCommand drives a cycle count through its lifecycle
type UpdateCycleCountStatusCommand struct {
	TaskID     string
	Status     string
	AssignedTo string
	Actor      string
}

// RecordCountCommand records the counted quantity of one item
type RecordCountCommand struct {
	ItemID         string
	ActualQuantity int
	Notes          string
	CountedBy      string
}

// ApplyAdjustmentsCommand approves the discrepancies of a completed count
type ApplyAdjustmentsCommand struct {
	TaskID     string
	Reason     string
	ApprovedBy string
}

// LoginCommand carries operator credentials
type LoginCommand struct {
	Username string
	Password string
}
