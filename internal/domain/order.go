package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a customer order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusReturned},
	OrderStatusDelivered:  {OrderStatusReturned},
}

// CanTransitionTo reports whether the order table allows s -> next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderPriority represents the shipping priority of an order
type OrderPriority string

const (
	OrderPriorityStandard OrderPriority = "standard"
	OrderPriorityExpress  OrderPriority = "express"
	OrderPriorityUrgent   OrderPriority = "urgent"
)

// IsValid reports whether p is a known order priority
func (p OrderPriority) IsValid() bool {
	switch p {
	case OrderPriorityStandard, OrderPriorityExpress, OrderPriorityUrgent:
		return true
	}
	return false
}

// TaskPriority maps the order priority onto pick/pack task priority
func (p OrderPriority) TaskPriority() TaskPriority {
	switch p {
	case OrderPriorityUrgent:
		return TaskPriorityUrgent
	case OrderPriorityExpress:
		return TaskPriorityHigh
	default:
		return TaskPriorityMedium
	}
}

// CustomerType classifies the buyer
type CustomerType string

const (
	CustomerTypeRetail    CustomerType = "retail"
	CustomerTypeWholesale CustomerType = "wholesale"
	CustomerTypeBusiness  CustomerType = "business"
)

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// Address is a postal address
type Address struct {
	Street     string `bson:"street"`
	City       string `bson:"city"`
	State      string `bson:"state,omitempty"`
	PostalCode string `bson:"postalCode"`
	Country    string `bson:"country"`
}

// Order is the aggregate root for customer orders
type Order struct {
	ID               string          `bson:"_id"`
	OrderNumber      string          `bson:"orderNumber"`
	CustomerName     string          `bson:"customerName"`
	CustomerType     CustomerType    `bson:"customerType"`
	CustomerLocation string          `bson:"customerLocation"`
	CustomerEmail    string          `bson:"customerEmail,omitempty"`
	Status           OrderStatus     `bson:"status"`
	Priority         OrderPriority   `bson:"priority"`
	PaymentStatus    PaymentStatus   `bson:"paymentStatus"`
	Items            []OrderItem     `bson:"items"`
	TotalValue       decimal.Decimal `bson:"totalValue"`
	Notes            string          `bson:"notes,omitempty"`
	ShippingAddress  *Address        `bson:"shippingAddress,omitempty"`
	CreatedAt        time.Time       `bson:"createdAt"`
	UpdatedAt        time.Time       `bson:"updatedAt"`
	Version          int64           `bson:"version"`
	aggregate        `bson:"-"`
}

// OrderItem is one line of an order
type OrderItem struct {
	ID          string          `bson:"id"`
	OrderID     string          `bson:"orderId"`
	SKU         string          `bson:"sku"`
	ProductName string          `bson:"productName"`
	Quantity    int             `bson:"quantity"`
	UnitPrice   decimal.Decimal `bson:"unitPrice"`
	LocationID  string          `bson:"locationId,omitempty"`
}

// LineTotal returns quantity times unit price
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewOrder creates a pending order
func NewOrder(orderNumber, customerName string, customerType CustomerType, customerLocation string, priority OrderPriority, items []OrderItem) (*Order, error) {
	if priority == "" {
		priority = OrderPriorityStandard
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if customerType == "" {
		customerType = CustomerTypeRetail
	}

	id := NewID("ORD")
	if orderNumber == "" {
		orderNumber = "SO-" + id[4:]
	}

	now := time.Now().UTC()
	order := &Order{
		ID:               id,
		OrderNumber:      orderNumber,
		CustomerName:     customerName,
		CustomerType:     customerType,
		CustomerLocation: customerLocation,
		Status:           OrderStatusPending,
		Priority:         priority,
		PaymentStatus:    PaymentStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := order.setItems(items); err != nil {
		return nil, err
	}

	order.addDomainEvent(&OrderCreatedEvent{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		CustomerName: customerName,
		Priority:     string(priority),
		ItemCount:    len(order.Items),
		TotalValue:   order.TotalValue.StringFixed(2),
		CreatedAt:    now,
	})

	return order, nil
}

func (o *Order) setItems(items []OrderItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for i := range items {
		if items[i].Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if items[i].UnitPrice.IsNegative() {
			return ErrInvalidPrice
		}
		if items[i].ID == "" {
			items[i].ID = NewID("OI")
		}
		items[i].OrderID = o.ID
	}
	o.Items = items
	o.recalculateTotal()
	return nil
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	o.TotalValue = total
}

// ReplaceItems swaps the order lines while the order is still pending
func (o *Order) ReplaceItems(items []OrderItem) error {
	if o.Status != OrderStatusPending {
		return ErrOrderNotEditable
	}
	if err := o.setItems(items); err != nil {
		return err
	}
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// OrderDetails carries the editable non-status fields of an order
type OrderDetails struct {
	CustomerName     *string
	CustomerEmail    *string
	CustomerLocation *string
	Priority         *OrderPriority
	PaymentStatus    *PaymentStatus
	Notes            *string
	ShippingAddress  *Address
}

// UpdateDetails applies the supplied fields
func (o *Order) UpdateDetails(d OrderDetails) error {
	if d.Priority != nil {
		if !d.Priority.IsValid() {
			return ErrInvalidPriority
		}
		o.Priority = *d.Priority
	}
	if d.CustomerName != nil {
		o.CustomerName = *d.CustomerName
	}
	if d.CustomerEmail != nil {
		o.CustomerEmail = *d.CustomerEmail
	}
	if d.CustomerLocation != nil {
		o.CustomerLocation = *d.CustomerLocation
	}
	if d.PaymentStatus != nil {
		o.PaymentStatus = *d.PaymentStatus
	}
	if d.Notes != nil {
		o.Notes = *d.Notes
	}
	if d.ShippingAddress != nil {
		o.ShippingAddress = d.ShippingAddress
	}
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// TransitionTo moves the order along the order status table
func (o *Order) TransitionTo(next OrderStatus) error {
	if !o.Status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}

	previous := o.Status
	now := time.Now().UTC()
	o.Status = next
	o.UpdatedAt = now

	o.addDomainEvent(&OrderStatusChangedEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		From:        string(previous),
		To:          string(next),
		ChangedAt:   now,
	})

	return nil
}

// MarkDeleted checks the order may be removed and records the event
func (o *Order) MarkDeleted() error {
	if o.Status != OrderStatusPending && o.Status != OrderStatusCancelled {
		return ErrOrderNotDeletable
	}

	o.addDomainEvent(&OrderDeletedEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		DeletedAt:   time.Now().UTC(),
	})
	return nil
}

// Item returns the order line with the given id
func (o *Order) Item(itemID string) (*OrderItem, error) {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i], nil
		}
	}
	return nil, ErrItemNotFound
}

// IsReturnable reports whether a return may be requested
func (o *Order) IsReturnable() bool {
	return o.Status == OrderStatusShipped || o.Status == OrderStatusDelivered
}
