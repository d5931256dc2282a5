package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shippedOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder("SO-1", "Acme", "", "Sydney", "", createTestOrderItems())
	require.NoError(t, err)
	require.NoError(t, order.TransitionTo(OrderStatusProcessing))
	require.NoError(t, order.TransitionTo(OrderStatusShipped))
	order.ClearDomainEvents()
	return order
}

func TestNewReturnRequest(t *testing.T) {
	order := shippedOrder(t)

	ret, err := NewReturnRequest(order, "damaged", ReturnMethodPickup, ResolutionReplacement,
		[]ReturnLine{{OrderItemID: order.Items[0].ID, Quantity: 2, Condition: "damaged"}}, "")
	require.NoError(t, err)

	assert.Equal(t, ReturnStatusRequested, ret.Status)
	assert.Equal(t, order.ID, ret.OrderID)
	assert.Equal(t, "SO-1", ret.OrderNumber)
	require.Len(t, ret.Items, 1)
	assert.Equal(t, "SKU-001", ret.Items[0].SKU)
}

func TestNewReturnRequestValidation(t *testing.T) {
	order := shippedOrder(t)

	_, err := NewReturnRequest(order, "", "", "", []ReturnLine{{OrderItemID: order.Items[0].ID, Quantity: 3}}, "")
	assert.ErrorIs(t, err, ErrReturnQuantityExceeded)

	itemID := order.Items[0].ID
	_, err = NewReturnRequest(order, "", "", "", []ReturnLine{{OrderItemID: itemID, Quantity: 2}, {OrderItemID: itemID, Quantity: 2}}, "")
	assert.ErrorIs(t, err, ErrReturnQuantityExceeded, "repeated lines are summed")

	earlier, err := NewReturnRequest(order, "", "", "", []ReturnLine{{OrderItemID: itemID, Quantity: 1}}, "")
	require.NoError(t, err)
	_, err = NewReturnRequest(order, "", "", "", []ReturnLine{{OrderItemID: itemID, Quantity: 2}}, "", earlier)
	assert.ErrorIs(t, err, ErrReturnQuantityExceeded, "earlier returns claim their quantity")

	earlier.Status = ReturnStatusRejected
	_, err = NewReturnRequest(order, "", "", "", []ReturnLine{{OrderItemID: itemID, Quantity: 2}}, "", earlier)
	assert.NoError(t, err, "rejected returns release their quantity")

	_, err = NewReturnRequest(order, "", "", "", []ReturnLine{{OrderItemID: "OI-missing", Quantity: 1}}, "")
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = NewReturnRequest(order, "", "", "", nil, "")
	assert.ErrorIs(t, err, ErrNoItems)

	pending, err := NewOrder("SO-2", "Acme", "", "", "", createTestOrderItems())
	require.NoError(t, err)
	_, err = NewReturnRequest(pending, "", "", "", []ReturnLine{{OrderItemID: pending.Items[0].ID, Quantity: 1}}, "")
	assert.ErrorIs(t, err, ErrOrderNotReturnable)
}

func TestReturnTransitions(t *testing.T) {
	path := []ReturnStatus{ReturnStatusApproved, ReturnStatusReceived, ReturnStatusInspected, ReturnStatusProcessed}
	ret := &ReturnRequest{ID: "RET-1", Status: ReturnStatusRequested}
	for _, next := range path {
		require.NoError(t, ret.TransitionTo(next, ""))
	}
	assert.Equal(t, ReturnStatusProcessed, ret.Status)
	assert.ErrorIs(t, ret.TransitionTo(ReturnStatusRejected, ""), ErrInvalidStatusTransition)

	received := &ReturnRequest{Status: ReturnStatusReceived}
	assert.ErrorIs(t, received.TransitionTo(ReturnStatusRejected, ""), ErrInvalidStatusTransition)
	assert.ErrorIs(t, received.TransitionTo(ReturnStatusProcessed, ""), ErrInvalidStatusTransition)
}
