package contract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/warehouse-ops/internal/domain"
)

func TestRequestValidator(t *testing.T) {
	v, err := NewRequestValidator()
	require.NoError(t, err)

	patch := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPatch, "/api/warehouse/pick-tasks/PT-1", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	assert.NoError(t, v.ValidateRequest(context.Background(), patch(`{"status":"in_progress"}`)))
	assert.Error(t, v.ValidateRequest(context.Background(), patch(`{"status":"picked"}`)))

	pkg := httptest.NewRequest(http.MethodPost, "/api/warehouse/packing-tasks/PK-1/packages",
		strings.NewReader(`{"packageType":"box","length":30,"width":20,"height":15,"weight":0.05}`))
	pkg.Header.Set("Content-Type", "application/json")
	assert.Error(t, v.ValidateRequest(context.Background(), pkg), "weight below 0.1 kg")

	for _, target := range []string{
		"/api/warehouse/pick-tasks?status=&priority=high&q=ord",
		"/api/warehouse/pick-tasks?status=all&priority=all&q=",
		"/api/orders?status=&q=",
		"/api/return-requests?status=&orderId=",
	} {
		list := httptest.NewRequest(http.MethodGet, target, nil)
		assert.NoError(t, v.ValidateRequest(context.Background(), list), target)
	}
}

func TestEventValidatorCoversEveryDomainEvent(t *testing.T) {
	v, err := NewEventValidator()
	require.NoError(t, err)

	now := time.Now().UTC()
	events := []domain.DomainEvent{
		&domain.PickTaskCreatedEvent{PickTaskID: "PT-1", CustomerOrderID: "ORD-1", Priority: "high", ItemCount: 2, DueDate: now, CreatedAt: now},
		&domain.PickTaskStartedEvent{PickTaskID: "PT-1", CustomerOrderID: "ORD-1", AssignedTo: "warehouse1", StartedAt: now},
		&domain.ItemPickedEvent{PickTaskID: "PT-1", ItemID: "PT-1-1", SKU: "SKU-1", Quantity: 2, PickedQuantity: 1, Partial: true, PickedAt: now},
		&domain.ItemUnavailableEvent{PickTaskID: "PT-1", ItemID: "PT-1-2", SKU: "SKU-2", ReportedAt: now},
		&domain.PickTaskCompletedEvent{PickTaskID: "PT-1", CustomerOrderID: "ORD-1", PickedItems: 1, UnavailableItems: 1, CompletedAt: now},
		&domain.PickTaskCancelledEvent{PickTaskID: "PT-2", PreviousStatus: "pending", CancelledAt: now},
		&domain.PackTaskCreatedEvent{PackTaskID: "PK-1", CustomerOrderID: "ORD-1", ItemCount: 1, CreatedAt: now},
		&domain.PackTaskStartedEvent{PackTaskID: "PK-1", StartedAt: now},
		&domain.PackageCreatedEvent{PackTaskID: "PK-1", PackageID: "PKG-1", PackageType: "box", Length: 30, Width: 20, Height: 15, Unit: "cm", Weight: 2.5, WeightUnit: "kg", CreatedAt: now},
		&domain.ItemPackedEvent{PackTaskID: "PK-1", ItemID: "PKI-1", SKU: "SKU-1", PackageID: "PKG-1", Quantity: 1, PackedAt: now},
		&domain.PackTaskCompletedEvent{PackTaskID: "PK-1", PackageCount: 1, CompletedAt: now},
		&domain.PackTaskCancelledEvent{PackTaskID: "PK-2", PreviousStatus: "pending", CancelledAt: now},
		&domain.OrderCreatedEvent{OrderID: "ORD-1", OrderNumber: "SO-1", CustomerName: "Acme", Priority: "standard", ItemCount: 1, TotalValue: "19.99", CreatedAt: now},
		&domain.OrderStatusChangedEvent{OrderID: "ORD-1", From: "pending", To: "processing", ChangedAt: now},
		&domain.OrderDeletedEvent{OrderID: "ORD-1", DeletedAt: now},
		&domain.ReturnRequestedEvent{ReturnID: "RET-1", OrderID: "ORD-1", ResolutionType: "refund", ItemCount: 1, RequestedAt: now},
		&domain.ReturnStatusChangedEvent{ReturnID: "RET-1", OrderID: "ORD-1", From: "requested", To: "approved", ChangedAt: now},
		&domain.CycleCountCompletedEvent{CycleCountTaskID: "CC-1", CountedItems: 2, CompletedAt: now},
		&domain.AdjustmentsAppliedEvent{CycleCountTaskID: "CC-1", ApprovedBy: "manager", Adjustments: []domain.InventoryAdjustment{{ItemID: "CCI-1", SKU: "SKU-1", Discrepancy: -5}}, AppliedAt: now},
	}

	assert.Len(t, v.SupportedEventTypes(), len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		require.NoError(t, err)
		assert.NoError(t, v.ValidateEvent(event.EventType(), payload), event.EventType())
	}

	assert.Error(t, v.ValidateEvent("wms.picking.task-started", []byte(`{"customerOrderId":"ORD-1"}`)))
}
