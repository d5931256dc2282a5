package kafka

import (
	"context"

	"github.com/wms-platform/warehouse-ops/pkg/cloudevents"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
	"github.com/wms-platform/warehouse-ops/pkg/resilience"
)

// CircuitBreakerProducer stops hammering an unreachable broker. The outbox
// keeps rejected events unpublished so they are retried on a later poll.
type CircuitBreakerProducer struct {
	producer EventPublisher
	breaker  *resilience.Breaker
}

// NewCircuitBreakerProducer creates a breaker protected producer
func NewCircuitBreakerProducer(producer EventPublisher, logger *logging.Logger, m *metrics.Metrics) *CircuitBreakerProducer {
	var observer resilience.StateObserver
	if m != nil {
		observer = m
	}
	return &CircuitBreakerProducer{
		producer: producer,
		breaker:  resilience.NewBreaker(resilience.BrokerBreaker("kafka-producer"), logger, observer),
	}
}

// PublishEvent publishes a CloudEvent through the breaker
func (p *CircuitBreakerProducer) PublishEvent(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error {
	return p.breaker.Run(ctx, func(ctx context.Context) error {
		return p.producer.PublishEvent(ctx, topic, event)
	})
}
