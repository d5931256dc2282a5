package infrastructure

import (
	"context"
	"fmt"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/cloudevents"
	"github.com/wms-platform/warehouse-ops/pkg/kafka"
	"github.com/wms-platform/warehouse-ops/pkg/outbox"
)

// Aggregate types recorded on outbox rows
const (
	AggregatePickTask      = "PickTask"
	AggregatePackTask      = "PackTask"
	AggregateOrder         = "Order"
	AggregateReturnRequest = "ReturnRequest"
	AggregateCycleCount    = "CycleCountTask"
)

var subjectPrefixes = map[string]string{
	AggregatePickTask:      "pick-task/",
	AggregatePackTask:      "pack-task/",
	AggregateOrder:         "order/",
	AggregateReturnRequest: "return/",
	AggregateCycleCount:    "cycle-count/",
}

// OutboxEvents converts recorded domain events into outbox rows. Each event
// is wrapped in a CloudEvent and routed to the topic owning its type.
func OutboxEvents(ctx context.Context, factory *cloudevents.EventFactory, aggregateType string, events []domain.DomainEvent) ([]*outbox.Message, error) {
	if len(events) == 0 {
		return nil, nil
	}

	rows := make([]*outbox.Message, 0, len(events))
	for _, event := range events {
		subject := subjectPrefixes[aggregateType] + event.AggregateID()

		var ce *cloudevents.WMSCloudEvent
		if scoped, ok := event.(domain.OrderScoped); ok {
			ce = factory.CreateOrderEvent(ctx, event.EventType(), subject, scoped.OrderReference(), event)
		} else {
			ce = factory.CreateEvent(ctx, event.EventType(), subject, event)
		}

		row, err := outbox.NewMessage(
			event.AggregateID(),
			aggregateType,
			kafka.TopicForEventType(event.EventType()),
			ce,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create outbox event %s: %w", event.EventType(), err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
