package application

import (
	"time"

	"github.com/shopspring/decimal"
)

// PickTaskDTO represents a pick task in responses
type PickTaskDTO struct {
	ID              string            `json:"id"`
	CustomerOrderID string            `json:"customerOrderId"`
	BatchID         string            `json:"batchId,omitempty"`
	Priority        string            `json:"priority"`
	DueDate         time.Time         `json:"dueDate"`
	Status          string            `json:"status"`
	Items           []PickTaskItemDTO `json:"items"`
	AssignedTo      string            `json:"assignedTo,omitempty"`
	StartedAt       *time.Time        `json:"startedAt,omitempty"`
	CompletedAt     *time.Time        `json:"completedAt,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	Version         int64             `json:"version"`
}

// PickTaskItemDTO represents one line of a pick task
type PickTaskItemDTO struct {
	ID             string     `json:"id"`
	PickTaskID     string     `json:"pickTaskId"`
	OrderItemID    string     `json:"orderItemId,omitempty"`
	SKU            string     `json:"sku"`
	ProductName    string     `json:"productName"`
	Quantity       int        `json:"quantity"`
	LocationID     string     `json:"locationId"`
	LocationName   string     `json:"locationName"`
	Status         string     `json:"status"`
	PickedQuantity *int       `json:"pickedQuantity,omitempty"`
	Partial        bool       `json:"partial"`
	PickedAt       *time.Time `json:"pickedAt,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// ScanResultDTO is one scanned code compared against its expectation
type ScanResultDTO struct {
	Code            string    `json:"code"`
	Expected        string    `json:"expected"`
	MatchesExpected bool      `json:"matchesExpected"`
	ScannedAt       time.Time `json:"scannedAt"`
}

// ScanVerificationDTO is the outcome of checking an item and location scan
type ScanVerificationDTO struct {
	ItemID       string        `json:"itemId"`
	ItemScan     ScanResultDTO `json:"itemScan"`
	LocationScan ScanResultDTO `json:"locationScan"`
	Verified     bool          `json:"verified"`
	Simulated    bool          `json:"simulated"`
}

// PackTaskDTO represents a pack task in responses
type PackTaskDTO struct {
	ID              string            `json:"id"`
	CustomerOrderID string            `json:"customerOrderId"`
	PickTaskID      string            `json:"pickTaskId,omitempty"`
	Priority        string            `json:"priority"`
	Status          string            `json:"status"`
	Items           []PackTaskItemDTO `json:"items"`
	Packages        []PackageDTO      `json:"packages"`
	AssignedTo      string            `json:"assignedTo,omitempty"`
	StartedAt       *time.Time        `json:"startedAt,omitempty"`
	CompletedAt     *time.Time        `json:"completedAt,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	Version         int64             `json:"version"`
}

// PackTaskItemDTO represents one line of a pack task
type PackTaskItemDTO struct {
	ID             string     `json:"id"`
	PackTaskID     string     `json:"packTaskId"`
	SKU            string     `json:"sku"`
	ProductName    string     `json:"productName"`
	Quantity       int        `json:"quantity"`
	Status         string     `json:"status"`
	PackedQuantity int        `json:"packedQuantity"`
	PackageID      string     `json:"packageId,omitempty"`
	PackedAt       *time.Time `json:"packedAt,omitempty"`
}

// PackageDTO represents a shipment package
type PackageDTO struct {
	ID             string    `json:"id"`
	PackTaskID     string    `json:"packTaskId"`
	PackageType    string    `json:"packageType"`
	Length         float64   `json:"length"`
	Width          float64   `json:"width"`
	Height         float64   `json:"height"`
	DimensionUnit  string    `json:"dimensionUnit"`
	Weight         float64   `json:"weight"`
	WeightUnit     string    `json:"weightUnit"`
	Status         string    `json:"status"`
	TrackingNumber string    `json:"trackingNumber,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// OrderDTO represents an order in responses
type OrderDTO struct {
	ID               string          `json:"id"`
	OrderNumber      string          `json:"orderNumber"`
	CustomerName     string          `json:"customerName"`
	CustomerType     string          `json:"customerType"`
	CustomerLocation string          `json:"customerLocation"`
	CustomerEmail    string          `json:"customerEmail,omitempty"`
	Status           string          `json:"status"`
	Priority         string          `json:"priority"`
	PaymentStatus    string          `json:"paymentStatus"`
	Items            []OrderItemDTO  `json:"items"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	Notes            string          `json:"notes,omitempty"`
	ShippingAddress  *AddressDTO     `json:"shippingAddress,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	Version          int64           `json:"version"`
}

// OrderItemDTO represents one order line
type OrderItemDTO struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"orderId"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
	LocationID  string          `json:"locationId,omitempty"`
}

// AddressDTO is a postal address
type AddressDTO struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// ReturnRequestDTO represents a return request in responses
type ReturnRequestDTO struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"orderId"`
	OrderNumber    string          `json:"orderNumber"`
	CustomerName   string          `json:"customerName"`
	Status         string          `json:"status"`
	Reason         string          `json:"reason"`
	ReturnMethod   string          `json:"returnMethod"`
	ResolutionType string          `json:"resolutionType"`
	Items          []ReturnItemDTO `json:"items"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ReturnItemDTO represents one returned line
type ReturnItemDTO struct {
	OrderItemID string `json:"orderItemId"`
	SKU         string `json:"sku"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Condition   string `json:"condition,omitempty"`
}

// CycleCountTaskDTO represents a cycle count in responses
type CycleCountTaskDTO struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	CountingMethod string              `json:"countingMethod"`
	Status         string              `json:"status"`
	AssignedTo     string              `json:"assignedTo,omitempty"`
	ScheduledDate  time.Time           `json:"scheduledDate"`
	StartedAt      *time.Time          `json:"startedAt,omitempty"`
	CompletedAt    *time.Time          `json:"completedAt,omitempty"`
	Locations      []string            `json:"locations"`
	Items          []CycleCountItemDTO `json:"items"`
	Notes          string              `json:"notes,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// CycleCountItemDTO represents one counted sku
type CycleCountItemDTO struct {
	ID               string     `json:"id"`
	CycleCountTaskID string     `json:"cycleCountTaskId"`
	LocationID       string     `json:"locationId"`
	SKU              string     `json:"sku"`
	ProductName      string     `json:"productName"`
	ExpectedQuantity int        `json:"expectedQuantity"`
	ActualQuantity   *int       `json:"actualQuantity,omitempty"`
	Discrepancy      *int       `json:"discrepancy,omitempty"`
	Status           string     `json:"status"`
	CountedBy        string     `json:"countedBy,omitempty"`
	CountedAt        *time.Time `json:"countedAt,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	AdjustmentReason string     `json:"adjustmentReason,omitempty"`
	ApprovedBy       string     `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty"`
}

// LoginResultDTO is returned after a successful login
type LoginResultDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserDTO   `json:"user"`
}

// UserDTO is the public view of an operator account
type UserDTO struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}
