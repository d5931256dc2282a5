// Package bootstrap wires the storage and messaging shared by the
// warehouse-ops binaries.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/wms-platform/warehouse-ops/internal/config"
	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/internal/fixtures"
	"github.com/wms-platform/warehouse-ops/internal/infrastructure/memory"
	mongoRepo "github.com/wms-platform/warehouse-ops/internal/infrastructure/mongodb"
	"github.com/wms-platform/warehouse-ops/pkg/cache"
	"github.com/wms-platform/warehouse-ops/pkg/cloudevents"
	"github.com/wms-platform/warehouse-ops/pkg/idempotency"
	"github.com/wms-platform/warehouse-ops/pkg/kafka"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
	"github.com/wms-platform/warehouse-ops/pkg/mongodb"
	"github.com/wms-platform/warehouse-ops/pkg/outbox"
)

// EventSource is the CloudEvents source of every published event
const EventSource = "/warehouse-ops"

// Storage holds the repositories of the configured driver
type Storage struct {
	PickTasks   domain.PickTaskRepository
	PackTasks   domain.PackTaskRepository
	Orders      domain.OrderRepository
	Returns     domain.ReturnRequestRepository
	CycleCounts domain.CycleCountRepository
	Users       domain.UserRepository
	Settings    domain.SettingsRepository
	Dashboard   domain.DashboardRepository
	Transactor  domain.Transactor
	Outbox      outbox.Store
	Keys        idempotency.Store

	ready func(ctx context.Context) error
	close func(ctx context.Context) error
}

// OpenStorage connects the driver selected by cfg.StorageDriver. MongoDB
// indexes are created on open.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *logging.Logger, m *metrics.Metrics) (*Storage, error) {
	eventFactory := cloudevents.NewEventFactory(EventSource)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		stores := memory.NewStores(eventFactory)
		logger.Warn("Using in-memory storage, data is lost on restart")
		return &Storage{
			PickTasks:   stores.PickTasks,
			PackTasks:   stores.PackTasks,
			Orders:      stores.Orders,
			Returns:     stores.Returns,
			CycleCounts: stores.CycleCounts,
			Users:       stores.Users,
			Settings:    stores.Settings,
			Dashboard:   stores.Dashboard,
			Transactor:  stores.Transactor,
			Outbox:      stores.Outbox,
			Keys:        idempotency.NewMemoryStore(),
			ready:       func(context.Context) error { return nil },
			close:       func(context.Context) error { return nil },
		}, nil

	case config.StorageMongoDB:
		client, err := mongodb.Connect(ctx, cfg.MongoDB, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		logger.Info("Connected to MongoDB", "database", cfg.MongoDB.Database)

		instr := mongodb.NewInstrumentation(cfg.MongoDB.Database, m, logger)
		stores := mongoRepo.NewStores(client, eventFactory, instr)
		if err := stores.EnsureIndexes(ctx); err != nil {
			_ = client.Close(ctx)
			return nil, fmt.Errorf("failed to create indexes: %w", err)
		}

		keys := idempotency.NewMongoStore(client.Database())
		if err := keys.EnsureIndexes(ctx); err != nil {
			logger.WithError(err).Warn("Failed to initialize idempotency indexes")
		}

		return &Storage{
			PickTasks:   stores.PickTasks,
			PackTasks:   stores.PackTasks,
			Orders:      stores.Orders,
			Returns:     stores.Returns,
			CycleCounts: stores.CycleCounts,
			Users:       stores.Users,
			Settings:    stores.Settings,
			Dashboard:   stores.Dashboard,
			Transactor:  stores.Transactor,
			Outbox:      stores.Outbox,
			Keys:        keys,
			ready:       client.HealthCheck,
			close:       client.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// Ready reports whether the backing database is reachable
func (s *Storage) Ready(ctx context.Context) error {
	return s.ready(ctx)
}

// Close releases the database connection
func (s *Storage) Close(ctx context.Context) error {
	return s.close(ctx)
}

// FixtureStores exposes the repositories written by fixtures.Seed
func (s *Storage) FixtureStores() fixtures.Stores {
	return fixtures.Stores{
		PickTasks:   s.PickTasks,
		PackTasks:   s.PackTasks,
		Orders:      s.Orders,
		Returns:     s.Returns,
		CycleCounts: s.CycleCounts,
		Users:       s.Users,
		Dashboard:   s.Dashboard,
	}
}

// NewQueryCache builds the list cache over Redis, or over process memory
// when no Redis address is configured
func NewQueryCache(ctx context.Context, cfg *config.Config, logger *logging.Logger, m *metrics.Metrics) (*cache.QueryCache, io.Closer) {
	c := cache.NewCache(ctx, cfg.Redis, logger, m)
	closer, _ := c.(io.Closer)
	return cache.NewQueryCache(c, cfg.CacheTTL, logger, m), closer
}

// Publisher relays outbox rows to Kafka
type Publisher struct {
	cancel   context.CancelFunc
	done     chan struct{}
	producer *kafka.Producer
}

// StartPublisher starts the outbox relay in the background. Payloads are
// checked against the event catalogue when validator is set.
func StartPublisher(ctx context.Context, cfg *config.Config, store outbox.Store, validator outbox.PayloadValidator, logger *logging.Logger, m *metrics.Metrics) (*Publisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("outbox relay needs at least one kafka broker")
	}
	producer := kafka.NewProducer(cfg.Kafka)
	instrumented := kafka.NewInstrumentedProducer(producer, m, logger)
	guarded := kafka.NewCircuitBreakerProducer(instrumented, logger, m)

	relay := outbox.NewRelay(store, guarded, outbox.RelayConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    100,
		Validator:    validator,
	}, logger, m)

	runCtx, cancel := context.WithCancel(ctx)
	p := &Publisher{cancel: cancel, done: make(chan struct{}), producer: producer}
	go func() {
		defer close(p.done)
		relay.Run(runCtx)
	}()

	logger.Info("Outbox relay started", "brokers", cfg.Kafka.Brokers, "pollInterval", cfg.OutboxPollInterval.String())
	return p, nil
}

// Stop waits for the relay loop to exit and closes the Kafka writers
func (p *Publisher) Stop() error {
	p.cancel()
	<-p.done
	return p.producer.Close()
}

// ShutdownTimeout bounds graceful shutdown of every binary
const ShutdownTimeout = 10 * time.Second
