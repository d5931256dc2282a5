package application

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/errors"
)

func shippedOrder(t *testing.T) *domain.Order {
	t.Helper()
	order := newOrder(t)
	require.NoError(t, order.TransitionTo(domain.OrderStatusProcessing))
	require.NoError(t, order.TransitionTo(domain.OrderStatusShipped))
	order.ClearDomainEvents()
	return order
}

func TestCreateReturn(t *testing.T) {
	order := shippedOrder(t)
	repo := &mockReturnRepo{}
	service := NewReturnApplicationService(repo, orderRepoWith(order), &passthroughTransactor{}, nil, testLogger(), nil)

	dto, err := service.CreateReturn(context.Background(), CreateReturnCommand{
		OrderID: order.ID,
		Reason:  "damaged in transit",
		Items:   []ReturnLineInput{{OrderItemID: order.Items[0].ID, Quantity: 2, Condition: "damaged"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "requested", dto.Status)
	assert.Equal(t, order.OrderNumber, dto.OrderNumber)
	assert.Equal(t, "mail", dto.ReturnMethod)
	assert.Equal(t, "refund", dto.ResolutionType)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, "SKU-1", dto.Items[0].SKU)
	assert.NotNil(t, repo.lastSaved)
}

func TestCreateReturnValidation(t *testing.T) {
	t.Run("pending order", func(t *testing.T) {
		order := newOrder(t)
		service := NewReturnApplicationService(&mockReturnRepo{}, orderRepoWith(order), &passthroughTransactor{}, nil, testLogger(), nil)

		_, err := service.CreateReturn(context.Background(), CreateReturnCommand{
			OrderID: order.ID,
			Items:   []ReturnLineInput{{OrderItemID: order.Items[0].ID, Quantity: 1}},
		})
		requireAppError(t, err, http.StatusConflict, errors.CodeInvalidStatusTransition)
	})

	t.Run("quantity exceeds ordered", func(t *testing.T) {
		order := shippedOrder(t)
		service := NewReturnApplicationService(&mockReturnRepo{}, orderRepoWith(order), &passthroughTransactor{}, nil, testLogger(), nil)

		_, err := service.CreateReturn(context.Background(), CreateReturnCommand{
			OrderID: order.ID,
			Items:   []ReturnLineInput{{OrderItemID: order.Items[0].ID, Quantity: 3}},
		})
		requireAppError(t, err, http.StatusBadRequest, errors.CodeValidationError)
	})

	t.Run("earlier returns claim quantity", func(t *testing.T) {
		order := shippedOrder(t)
		earlier, err := domain.NewReturnRequest(order, "", "", "", []domain.ReturnLine{{OrderItemID: order.Items[0].ID, Quantity: 2}}, "")
		require.NoError(t, err)
		repo := &mockReturnRepo{findAllFn: func(context.Context) ([]*domain.ReturnRequest, error) {
			return []*domain.ReturnRequest{earlier}, nil
		}}
		service := NewReturnApplicationService(repo, orderRepoWith(order), &passthroughTransactor{}, nil, testLogger(), nil)

		_, err = service.CreateReturn(context.Background(), CreateReturnCommand{
			OrderID: order.ID,
			Items:   []ReturnLineInput{{OrderItemID: order.Items[0].ID, Quantity: 1}},
		})
		requireAppError(t, err, http.StatusBadRequest, errors.CodeValidationError)
		assert.Nil(t, repo.lastSaved)
	})

	t.Run("unknown order", func(t *testing.T) {
		service := NewReturnApplicationService(&mockReturnRepo{}, &mockOrderRepo{}, &passthroughTransactor{}, nil, testLogger(), nil)

		_, err := service.CreateReturn(context.Background(), CreateReturnCommand{OrderID: "ORD-x"})
		requireAppError(t, err, http.StatusNotFound, errors.CodeNotFound)
	})
}

func TestProcessingReturnMarksOrderReturned(t *testing.T) {
	order := shippedOrder(t)
	ret, err := domain.NewReturnRequest(order, "wrong size", domain.ReturnMethodPickup, domain.ResolutionReplacement,
		[]domain.ReturnLine{{OrderItemID: order.Items[0].ID, Quantity: 1}}, "")
	require.NoError(t, err)
	for _, s := range []domain.ReturnStatus{domain.ReturnStatusApproved, domain.ReturnStatusReceived, domain.ReturnStatusInspected} {
		require.NoError(t, ret.TransitionTo(s, ""))
	}

	repo := &mockReturnRepo{findByIDFn: func(context.Context, string) (*domain.ReturnRequest, error) { return ret, nil }}
	orders := orderRepoWith(order)
	tx := &passthroughTransactor{}
	service := NewReturnApplicationService(repo, orders, tx, nil, testLogger(), nil)

	dto, err := service.UpdateReturnStatus(context.Background(), UpdateReturnStatusCommand{ReturnID: ret.ID, Status: "processed", Notes: "refund issued"})
	require.NoError(t, err)
	assert.Equal(t, "processed", dto.Status)
	assert.Equal(t, "refund issued", dto.Notes)
	assert.Equal(t, 1, tx.calls)
	require.NotNil(t, orders.lastSaved)
	assert.Equal(t, domain.OrderStatusReturned, orders.lastSaved.Status)
}

func TestUpdateReturnStatusInvalidTransition(t *testing.T) {
	order := shippedOrder(t)
	ret, err := domain.NewReturnRequest(order, "", "", "", []domain.ReturnLine{{OrderItemID: order.Items[0].ID, Quantity: 1}}, "")
	require.NoError(t, err)

	repo := &mockReturnRepo{findByIDFn: func(context.Context, string) (*domain.ReturnRequest, error) { return ret, nil }}
	orders := orderRepoWith(order)
	service := NewReturnApplicationService(repo, orders, &passthroughTransactor{}, nil, testLogger(), nil)

	_, err = service.UpdateReturnStatus(context.Background(), UpdateReturnStatusCommand{ReturnID: ret.ID, Status: "processed"})
	requireAppError(t, err, http.StatusConflict, errors.CodeInvalidStatusTransition)
	assert.Nil(t, repo.lastSaved)
	assert.Nil(t, orders.lastSaved)
}

func TestListReturnsByOrder(t *testing.T) {
	order := shippedOrder(t)
	ret, err := domain.NewReturnRequest(order, "", "", "", []domain.ReturnLine{{OrderItemID: order.Items[0].ID, Quantity: 1}}, "")
	require.NoError(t, err)
	repo := &mockReturnRepo{findAllFn: func(context.Context) ([]*domain.ReturnRequest, error) {
		return []*domain.ReturnRequest{ret}, nil
	}}
	service := NewReturnApplicationService(repo, &mockOrderRepo{}, &passthroughTransactor{}, nil, testLogger(), nil)

	dtos, err := service.ListReturns(context.Background(), domain.ReturnFilter{OrderID: order.ID})
	require.NoError(t, err)
	assert.Len(t, dtos, 1)

	dtos, err = service.ListReturns(context.Background(), domain.ReturnFilter{OrderID: "ORD-other"})
	require.NoError(t, err)
	assert.Empty(t, dtos)
}
