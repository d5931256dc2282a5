package domain

import (
	"time"

	"github.com/wms-platform/warehouse-ops/pkg/cloudevents"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
	AggregateID() string
}

// OrderScoped is implemented by events that belong to a customer order
type OrderScoped interface {
	OrderReference() string
}

// aggregate records domain events until the repository persists them
type aggregate struct {
	events []DomainEvent
}

func (a *aggregate) addDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// DomainEvents returns the events recorded since the last save
func (a *aggregate) DomainEvents() []DomainEvent {
	return a.events
}

// ClearDomainEvents drops recorded events after they were persisted
func (a *aggregate) ClearDomainEvents() {
	a.events = nil
}

// Picking events

type PickTaskCreatedEvent struct {
	PickTaskID      string    `json:"pickTaskId"`
	CustomerOrderID string    `json:"customerOrderId"`
	Priority        string    `json:"priority"`
	ItemCount       int       `json:"itemCount"`
	DueDate         time.Time `json:"dueDate"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (e *PickTaskCreatedEvent) EventType() string      { return cloudevents.PickTaskCreated }
func (e *PickTaskCreatedEvent) OccurredAt() time.Time  { return e.CreatedAt }
func (e *PickTaskCreatedEvent) AggregateID() string    { return e.PickTaskID }
func (e *PickTaskCreatedEvent) OrderReference() string { return e.CustomerOrderID }

type PickTaskStartedEvent struct {
	PickTaskID      string    `json:"pickTaskId"`
	CustomerOrderID string    `json:"customerOrderId"`
	AssignedTo      string    `json:"assignedTo"`
	StartedAt       time.Time `json:"startedAt"`
}

func (e *PickTaskStartedEvent) EventType() string      { return cloudevents.PickTaskStarted }
func (e *PickTaskStartedEvent) OccurredAt() time.Time  { return e.StartedAt }
func (e *PickTaskStartedEvent) AggregateID() string    { return e.PickTaskID }
func (e *PickTaskStartedEvent) OrderReference() string { return e.CustomerOrderID }

type ItemPickedEvent struct {
	PickTaskID     string    `json:"pickTaskId"`
	ItemID         string    `json:"itemId"`
	SKU            string    `json:"sku"`
	LocationID     string    `json:"locationId"`
	Quantity       int       `json:"quantity"`
	PickedQuantity int       `json:"pickedQuantity"`
	Partial        bool      `json:"partial"`
	PickedAt       time.Time `json:"pickedAt"`
}

func (e *ItemPickedEvent) EventType() string     { return cloudevents.ItemPicked }
func (e *ItemPickedEvent) OccurredAt() time.Time { return e.PickedAt }
func (e *ItemPickedEvent) AggregateID() string   { return e.PickTaskID }

type ItemUnavailableEvent struct {
	PickTaskID string    `json:"pickTaskId"`
	ItemID     string    `json:"itemId"`
	SKU        string    `json:"sku"`
	LocationID string    `json:"locationId"`
	Notes      string    `json:"notes,omitempty"`
	ReportedAt time.Time `json:"reportedAt"`
}

func (e *ItemUnavailableEvent) EventType() string     { return cloudevents.ItemUnavailable }
func (e *ItemUnavailableEvent) OccurredAt() time.Time { return e.ReportedAt }
func (e *ItemUnavailableEvent) AggregateID() string   { return e.PickTaskID }

type PickTaskCompletedEvent struct {
	PickTaskID       string    `json:"pickTaskId"`
	CustomerOrderID  string    `json:"customerOrderId"`
	PickedItems      int       `json:"pickedItems"`
	UnavailableItems int       `json:"unavailableItems"`
	CompletedAt      time.Time `json:"completedAt"`
}

func (e *PickTaskCompletedEvent) EventType() string      { return cloudevents.PickTaskCompleted }
func (e *PickTaskCompletedEvent) OccurredAt() time.Time  { return e.CompletedAt }
func (e *PickTaskCompletedEvent) AggregateID() string    { return e.PickTaskID }
func (e *PickTaskCompletedEvent) OrderReference() string { return e.CustomerOrderID }

type PickTaskCancelledEvent struct {
	PickTaskID      string    `json:"pickTaskId"`
	CustomerOrderID string    `json:"customerOrderId"`
	PreviousStatus  string    `json:"previousStatus"`
	CancelledAt     time.Time `json:"cancelledAt"`
}

func (e *PickTaskCancelledEvent) EventType() string      { return cloudevents.PickTaskCancelled }
func (e *PickTaskCancelledEvent) OccurredAt() time.Time  { return e.CancelledAt }
func (e *PickTaskCancelledEvent) AggregateID() string    { return e.PickTaskID }
func (e *PickTaskCancelledEvent) OrderReference() string { return e.CustomerOrderID }

// Packing events

type PackTaskCreatedEvent struct {
	PackTaskID      string    `json:"packTaskId"`
	CustomerOrderID string    `json:"customerOrderId"`
	PickTaskID      string    `json:"pickTaskId,omitempty"`
	ItemCount       int       `json:"itemCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (e *PackTaskCreatedEvent) EventType() string      { return cloudevents.PackTaskCreated }
func (e *PackTaskCreatedEvent) OccurredAt() time.Time  { return e.CreatedAt }
func (e *PackTaskCreatedEvent) AggregateID() string    { return e.PackTaskID }
func (e *PackTaskCreatedEvent) OrderReference() string { return e.CustomerOrderID }

type PackTaskStartedEvent struct {
	PackTaskID string    `json:"packTaskId"`
	AssignedTo string    `json:"assignedTo,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
}

func (e *PackTaskStartedEvent) EventType() string     { return cloudevents.PackTaskStarted }
func (e *PackTaskStartedEvent) OccurredAt() time.Time { return e.StartedAt }
func (e *PackTaskStartedEvent) AggregateID() string   { return e.PackTaskID }

type PackageCreatedEvent struct {
	PackTaskID  string    `json:"packTaskId"`
	PackageID   string    `json:"packageId"`
	PackageType string    `json:"packageType"`
	Length      float64   `json:"length"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Unit        string    `json:"dimensionUnit"`
	Weight      float64   `json:"weight"`
	WeightUnit  string    `json:"weightUnit"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (e *PackageCreatedEvent) EventType() string     { return cloudevents.PackageCreated }
func (e *PackageCreatedEvent) OccurredAt() time.Time { return e.CreatedAt }
func (e *PackageCreatedEvent) AggregateID() string   { return e.PackTaskID }

type ItemPackedEvent struct {
	PackTaskID string    `json:"packTaskId"`
	ItemID     string    `json:"itemId"`
	SKU        string    `json:"sku"`
	PackageID  string    `json:"packageId"`
	Quantity   int       `json:"quantity"`
	PackedAt   time.Time `json:"packedAt"`
}

func (e *ItemPackedEvent) EventType() string     { return cloudevents.ItemPacked }
func (e *ItemPackedEvent) OccurredAt() time.Time { return e.PackedAt }
func (e *ItemPackedEvent) AggregateID() string   { return e.PackTaskID }

type PackTaskCompletedEvent struct {
	PackTaskID      string    `json:"packTaskId"`
	CustomerOrderID string    `json:"customerOrderId"`
	PackageCount    int       `json:"packageCount"`
	CompletedAt     time.Time `json:"completedAt"`
}

func (e *PackTaskCompletedEvent) EventType() string      { return cloudevents.PackTaskCompleted }
func (e *PackTaskCompletedEvent) OccurredAt() time.Time  { return e.CompletedAt }
func (e *PackTaskCompletedEvent) AggregateID() string    { return e.PackTaskID }
func (e *PackTaskCompletedEvent) OrderReference() string { return e.CustomerOrderID }

type PackTaskCancelledEvent struct {
	PackTaskID     string    `json:"packTaskId"`
	PreviousStatus string    `json:"previousStatus"`
	CancelledAt    time.Time `json:"cancelledAt"`
}

func (e *PackTaskCancelledEvent) EventType() string     { return cloudevents.PackTaskCancelled }
func (e *PackTaskCancelledEvent) OccurredAt() time.Time { return e.CancelledAt }
func (e *PackTaskCancelledEvent) AggregateID() string   { return e.PackTaskID }

// Order events

type OrderCreatedEvent struct {
	OrderID      string    `json:"orderId"`
	OrderNumber  string    `json:"orderNumber"`
	CustomerName string    `json:"customerName"`
	Priority     string    `json:"priority"`
	ItemCount    int       `json:"itemCount"`
	TotalValue   string    `json:"totalValue"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (e *OrderCreatedEvent) EventType() string      { return cloudevents.OrderCreated }
func (e *OrderCreatedEvent) OccurredAt() time.Time  { return e.CreatedAt }
func (e *OrderCreatedEvent) AggregateID() string    { return e.OrderID }
func (e *OrderCreatedEvent) OrderReference() string { return e.OrderID }

type OrderStatusChangedEvent struct {
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	ChangedAt   time.Time `json:"changedAt"`
}

func (e *OrderStatusChangedEvent) EventType() string      { return cloudevents.OrderStatusChanged }
func (e *OrderStatusChangedEvent) OccurredAt() time.Time  { return e.ChangedAt }
func (e *OrderStatusChangedEvent) AggregateID() string    { return e.OrderID }
func (e *OrderStatusChangedEvent) OrderReference() string { return e.OrderID }

type OrderDeletedEvent struct {
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	DeletedAt   time.Time `json:"deletedAt"`
}

func (e *OrderDeletedEvent) EventType() string      { return cloudevents.OrderDeleted }
func (e *OrderDeletedEvent) OccurredAt() time.Time  { return e.DeletedAt }
func (e *OrderDeletedEvent) AggregateID() string    { return e.OrderID }
func (e *OrderDeletedEvent) OrderReference() string { return e.OrderID }

// Return events

type ReturnRequestedEvent struct {
	ReturnID       string    `json:"returnId"`
	OrderID        string    `json:"orderId"`
	Reason         string    `json:"reason"`
	ResolutionType string    `json:"resolutionType"`
	ItemCount      int       `json:"itemCount"`
	RequestedAt    time.Time `json:"requestedAt"`
}

func (e *ReturnRequestedEvent) EventType() string      { return cloudevents.ReturnRequested }
func (e *ReturnRequestedEvent) OccurredAt() time.Time  { return e.RequestedAt }
func (e *ReturnRequestedEvent) AggregateID() string    { return e.ReturnID }
func (e *ReturnRequestedEvent) OrderReference() string { return e.OrderID }

type ReturnStatusChangedEvent struct {
	ReturnID  string    `json:"returnId"`
	OrderID   string    `json:"orderId"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changedAt"`
}

func (e *ReturnStatusChangedEvent) EventType() string      { return cloudevents.ReturnStatusChanged }
func (e *ReturnStatusChangedEvent) OccurredAt() time.Time  { return e.ChangedAt }
func (e *ReturnStatusChangedEvent) AggregateID() string    { return e.ReturnID }
func (e *ReturnStatusChangedEvent) OrderReference() string { return e.OrderID }

// Inventory events

type CycleCountCompletedEvent struct {
	CycleCountTaskID string    `json:"cycleCountTaskId"`
	CountedItems     int       `json:"countedItems"`
	Investigations   int       `json:"investigations"`
	CompletedAt      time.Time `json:"completedAt"`
}

func (e *CycleCountCompletedEvent) EventType() string     { return cloudevents.CycleCountCompleted }
func (e *CycleCountCompletedEvent) OccurredAt() time.Time { return e.CompletedAt }
func (e *CycleCountCompletedEvent) AggregateID() string   { return e.CycleCountTaskID }

type InventoryAdjustment struct {
	ItemID      string `json:"itemId"`
	SKU         string `json:"sku"`
	LocationID  string `json:"locationId"`
	Discrepancy int    `json:"discrepancy"`
}

type AdjustmentsAppliedEvent struct {
	CycleCountTaskID string                `json:"cycleCountTaskId"`
	ApprovedBy       string                `json:"approvedBy"`
	Reason           string                `json:"reason"`
	Adjustments      []InventoryAdjustment `json:"adjustments"`
	AppliedAt        time.Time             `json:"appliedAt"`
}

func (e *AdjustmentsAppliedEvent) EventType() string     { return cloudevents.AdjustmentsApplied }
func (e *AdjustmentsAppliedEvent) OccurredAt() time.Time { return e.AppliedAt }
func (e *AdjustmentsAppliedEvent) AggregateID() string   { return e.CycleCountTaskID }
