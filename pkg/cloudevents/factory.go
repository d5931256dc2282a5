package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/tracing"
)

// EventFactory creates CloudEvents for warehouse domain events
type EventFactory struct {
	source string
}

// NewEventFactory creates a new EventFactory for a fixed source. An empty
// source derives the source from each event type.
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source}
}

// CreateEvent creates a new WMSCloudEvent. Correlation, user and trace
// context are copied from ctx when present.
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *WMSCloudEvent {
	source := f.source
	if source == "" {
		source = SourceForType(eventType)
	}

	event := &WMSCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
	}

	event.CorrelationID = logging.CorrelationIDFromContext(ctx)
	event.UserID = logging.UserIDFromContext(ctx)

	event.TraceParent, event.TraceState = tracing.TraceHeaders(ctx)

	return event
}

// CreateOrderEvent creates an event that carries the order id extension
func (f *EventFactory) CreateOrderEvent(
	ctx context.Context,
	eventType string,
	subject string,
	orderID string,
	data interface{},
) *WMSCloudEvent {
	event := f.CreateEvent(ctx, eventType, subject, data)
	event.OrderID = orderID
	return event
}
