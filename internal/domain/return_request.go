package domain

import "time"

// ReturnStatus represents the status of a return request
type ReturnStatus string

const (
	ReturnStatusRequested ReturnStatus = "requested"
	ReturnStatusApproved  ReturnStatus = "approved"
	ReturnStatusReceived  ReturnStatus = "received"
	ReturnStatusInspected ReturnStatus = "inspected"
	ReturnStatusProcessed ReturnStatus = "processed"
	ReturnStatusRejected  ReturnStatus = "rejected"
)

var returnTransitions = map[ReturnStatus][]ReturnStatus{
	ReturnStatusRequested: {ReturnStatusApproved, ReturnStatusRejected},
	ReturnStatusApproved:  {ReturnStatusReceived, ReturnStatusRejected},
	ReturnStatusReceived:  {ReturnStatusInspected},
	ReturnStatusInspected: {ReturnStatusProcessed, ReturnStatusRejected},
}

// CanTransitionTo reports whether the return table allows s -> next
func (s ReturnStatus) CanTransitionTo(next ReturnStatus) bool {
	for _, allowed := range returnTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ReturnMethod is how the goods come back
type ReturnMethod string

const (
	ReturnMethodPickup  ReturnMethod = "pickup"
	ReturnMethodDropOff ReturnMethod = "drop_off"
	ReturnMethodMail    ReturnMethod = "mail"
)

// ResolutionType is what the customer receives
type ResolutionType string

const (
	ResolutionRefund      ResolutionType = "refund"
	ResolutionReplacement ResolutionType = "replacement"
	ResolutionStoreCredit ResolutionType = "store_credit"
)

// ReturnRequest is the aggregate root for customer returns
type ReturnRequest struct {
	ID             string         `bson:"_id"`
	OrderID        string         `bson:"orderId"`
	OrderNumber    string         `bson:"orderNumber"`
	CustomerName   string         `bson:"customerName"`
	Status         ReturnStatus   `bson:"status"`
	Reason         string         `bson:"reason"`
	ReturnMethod   ReturnMethod   `bson:"returnMethod"`
	ResolutionType ResolutionType `bson:"resolutionType"`
	Items          []ReturnItem   `bson:"items"`
	Notes          string         `bson:"notes,omitempty"`
	CreatedAt      time.Time      `bson:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt"`
	Version        int64          `bson:"version"`
	aggregate      `bson:"-"`
}

// ReturnItem is one returned order line
type ReturnItem struct {
	OrderItemID string `bson:"orderItemId"`
	SKU         string `bson:"sku"`
	ProductName string `bson:"productName"`
	Quantity    int    `bson:"quantity"`
	Condition   string `bson:"condition,omitempty"`
}

// ReturnLine is a requested return quantity for an order line
type ReturnLine struct {
	OrderItemID string
	Quantity    int
	Condition   string
}

// ClaimedQuantities sums the quantity per order line held by the returns of
// orderID that were not rejected
func ClaimedQuantities(returns []*ReturnRequest, orderID string) map[string]int {
	claimed := make(map[string]int)
	for _, r := range returns {
		if r.OrderID != orderID || r.Status == ReturnStatusRejected {
			continue
		}
		for _, item := range r.Items {
			claimed[item.OrderItemID] += item.Quantity
		}
	}
	return claimed
}

// NewReturnRequest validates the lines against the order and creates a
// return in the requested state. The quantity requested per order line,
// together with what prior returns of the order already claim, may not
// exceed the ordered quantity.
func NewReturnRequest(order *Order, reason string, method ReturnMethod, resolution ResolutionType, lines []ReturnLine, notes string, prior ...*ReturnRequest) (*ReturnRequest, error) {
	if !order.IsReturnable() {
		return nil, ErrOrderNotReturnable
	}
	if len(lines) == 0 {
		return nil, ErrNoItems
	}

	claimed := ClaimedQuantities(prior, order.ID)
	items := make([]ReturnItem, 0, len(lines))
	for _, line := range lines {
		orderItem, err := order.Item(line.OrderItemID)
		if err != nil {
			return nil, err
		}
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		claimed[orderItem.ID] += line.Quantity
		if claimed[orderItem.ID] > orderItem.Quantity {
			return nil, ErrReturnQuantityExceeded
		}
		items = append(items, ReturnItem{
			OrderItemID: orderItem.ID,
			SKU:         orderItem.SKU,
			ProductName: orderItem.ProductName,
			Quantity:    line.Quantity,
			Condition:   line.Condition,
		})
	}

	if method == "" {
		method = ReturnMethodMail
	}
	if resolution == "" {
		resolution = ResolutionRefund
	}

	now := time.Now().UTC()
	ret := &ReturnRequest{
		ID:             NewID("RET"),
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerName:   order.CustomerName,
		Status:         ReturnStatusRequested,
		Reason:         reason,
		ReturnMethod:   method,
		ResolutionType: resolution,
		Items:          items,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	ret.addDomainEvent(&ReturnRequestedEvent{
		ReturnID:       ret.ID,
		OrderID:        order.ID,
		Reason:         reason,
		ResolutionType: string(resolution),
		ItemCount:      len(items),
		RequestedAt:    now,
	})

	return ret, nil
}

// TransitionTo moves the return along the return status table
func (r *ReturnRequest) TransitionTo(next ReturnStatus, notes string) error {
	if !r.Status.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}

	previous := r.Status
	now := time.Now().UTC()
	r.Status = next
	if notes != "" {
		r.Notes = notes
	}
	r.UpdatedAt = now

	r.addDomainEvent(&ReturnStatusChangedEvent{
		ReturnID:  r.ID,
		OrderID:   r.OrderID,
		From:      string(previous),
		To:        string(next),
		ChangedAt: now,
	})

	return nil
}
