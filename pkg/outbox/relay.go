package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/wms-platform/warehouse-ops/pkg/kafka"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
)

// PayloadValidator checks an event's data before it leaves the service
type PayloadValidator interface {
	ValidateEvent(eventType string, payload []byte) error
}

// RelayConfig tunes the polling loop
type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// Validator rejects payloads that break the event catalogue. Rejected
	// messages count as failed attempts.
	Validator PayloadValidator
}

// Relay polls a Store and publishes pending messages in creation order
type Relay struct {
	store    Store
	producer kafka.EventPublisher
	cfg      RelayConfig
	logger   *logging.Logger
	metrics  *metrics.Metrics
}

func NewRelay(store Store, producer kafka.EventPublisher, cfg RelayConfig, logger *logging.Logger, m *metrics.Metrics) *Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Relay{
		store:    store,
		producer: producer,
		cfg:      cfg,
		logger:   logger.WithComponent("outbox-relay"),
		metrics:  m,
	}
}

// Run flushes every poll interval until ctx is done
func (r *Relay) Run(ctx context.Context) {
	r.logger.Info("Outbox relay started", "interval", r.cfg.PollInterval.String(), "batchSize", r.cfg.BatchSize)
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	var published, failed int
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped", "published", published, "failed", failed)
			return
		case <-ticker.C:
			p, f := r.Flush(ctx)
			published += p
			failed += f
		}
	}
}

// Flush publishes one batch and returns how many messages were published
// and how many failed. Once a message fails, later messages of the same
// aggregate wait for the next flush so per-aggregate order holds.
func (r *Relay) Flush(ctx context.Context) (published, failed int) {
	batch, err := r.store.Pending(ctx, r.cfg.BatchSize)
	if err != nil {
		r.logger.WithError(err).Error("Failed to load pending outbox messages")
		return 0, 0
	}
	if r.metrics != nil {
		r.metrics.SetOutboxPending(len(batch))
	}

	blocked := make(map[string]bool)
	for _, msg := range batch {
		if blocked[msg.AggregateID] {
			r.logger.Debug("Outbox message held behind failed predecessor",
				"messageId", msg.ID, "aggregateId", msg.AggregateID)
			continue
		}

		err := r.publish(ctx, msg)
		if r.metrics != nil {
			r.metrics.RecordOutboxPublish(msg.EventType, err == nil)
		}

		if err != nil {
			failed++
			blocked[msg.AggregateID] = true
			r.logger.WithError(err).Warn("Outbox message not published",
				"messageId", msg.ID, "eventType", msg.EventType, "aggregateId", msg.AggregateID, "attempt", msg.Attempts+1)
			if r.metrics != nil {
				r.metrics.RecordOutboxRetry(msg.EventType)
			}
			if err := r.store.RecordFailure(ctx, msg.ID, err.Error()); err != nil {
				r.logger.WithError(err).Error("Failed to record outbox failure", "messageId", msg.ID)
			}
			continue
		}

		published++
		if err := r.store.MarkPublished(ctx, msg.ID); err != nil {
			r.logger.WithError(err).Error("Failed to mark outbox message published", "messageId", msg.ID)
		}
	}
	return published, failed
}

func (r *Relay) publish(ctx context.Context, msg *Message) error {
	event, err := msg.Event()
	if err != nil {
		return fmt.Errorf("corrupt payload: %w", err)
	}
	if r.cfg.Validator != nil {
		data, err := msg.Data()
		if err != nil {
			return fmt.Errorf("corrupt payload data: %w", err)
		}
		if err := r.cfg.Validator.ValidateEvent(msg.EventType, data); err != nil {
			return fmt.Errorf("payload rejected: %w", err)
		}
	}
	return r.producer.PublishEvent(ctx, msg.Topic, event)
}
