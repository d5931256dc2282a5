package cloudevents

import (
	"strings"
	"time"
)

// EventType constants for warehouse domain events
const (
	// Picking events
	PickTaskCreated   = "wms.picking.task-created"
	PickTaskStarted   = "wms.picking.task-started"
	ItemPicked        = "wms.picking.item-picked"
	ItemUnavailable   = "wms.picking.item-unavailable"
	PickTaskCompleted = "wms.picking.task-completed"
	PickTaskCancelled = "wms.picking.task-cancelled"

	// Packing events
	PackTaskCreated   = "wms.packing.task-created"
	PackTaskStarted   = "wms.packing.task-started"
	PackageCreated    = "wms.packing.package-created"
	ItemPacked        = "wms.packing.item-packed"
	PackTaskCompleted = "wms.packing.task-completed"
	PackTaskCancelled = "wms.packing.task-cancelled"

	// Order events
	OrderCreated       = "wms.order.created"
	OrderStatusChanged = "wms.order.status-changed"
	OrderDeleted       = "wms.order.deleted"

	// Return events
	ReturnRequested     = "wms.return.requested"
	ReturnStatusChanged = "wms.return.status-changed"

	// Inventory events
	CycleCountCompleted = "wms.inventory.cycle-count-completed"
	AdjustmentsApplied  = "wms.inventory.adjustments-applied"
)

// Source constants for event sources
const (
	SourcePicking   = "/wms/warehouse-ops/picking"
	SourcePacking   = "/wms/warehouse-ops/packing"
	SourceOrders    = "/wms/warehouse-ops/orders"
	SourceReturns   = "/wms/warehouse-ops/returns"
	SourceInventory = "/wms/warehouse-ops/inventory"
)

// CloudEvents extension attribute names
const (
	ExtCorrelationID = "wmscorrelationid"
	ExtWorkflowID    = "wmsworkflowid"
	ExtOrderID       = "wmsorderid"
	ExtUserID        = "wmsuserid"
)

// WMSCloudEvent represents a CloudEvents v1.0 compliant event
type WMSCloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	// WMS-specific extensions
	CorrelationID string `json:"wmscorrelationid,omitempty"`
	WorkflowID    string `json:"wmsworkflowid,omitempty"`
	OrderID       string `json:"wmsorderid,omitempty"`
	UserID        string `json:"wmsuserid,omitempty"`

	// W3C trace context
	TraceParent string `json:"traceparent,omitempty"`
	TraceState  string `json:"tracestate,omitempty"`
}

// SourceForType returns the event source for a known event type prefix
func SourceForType(eventType string) string {
	switch {
	case strings.HasPrefix(eventType, "wms.picking."):
		return SourcePicking
	case strings.HasPrefix(eventType, "wms.packing."):
		return SourcePacking
	case strings.HasPrefix(eventType, "wms.order."):
		return SourceOrders
	case strings.HasPrefix(eventType, "wms.return."):
		return SourceReturns
	case strings.HasPrefix(eventType, "wms.inventory."):
		return SourceInventory
	default:
		return "/wms/warehouse-ops"
	}
}
