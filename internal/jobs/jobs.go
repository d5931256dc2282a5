// Package jobs runs the periodic maintenance of the warehouse worker.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
	"github.com/wms-platform/warehouse-ops/pkg/tracing"
)

// Job names
const (
	OutboxCleanup      = "outbox-cleanup"
	IdempotencyCleanup = "idempotency-cleanup"
	OverduePickTasks   = "overdue-pick-tasks"
)

// OutboxCleaner deletes published outbox events
type OutboxCleaner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// KeyCleaner deletes expired idempotency keys
type KeyCleaner interface {
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// OverdueCounter counts open pick tasks past their due date
type OverdueCounter interface {
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

// Config holds the job schedule
type Config struct {
	OutboxRetention time.Duration
	CleanupInterval time.Duration
	OverdueInterval time.Duration
}

// DefaultConfig returns the default schedule
func DefaultConfig() Config {
	return Config{
		OutboxRetention: 7 * 24 * time.Hour,
		CleanupInterval: time.Hour,
		OverdueInterval: 5 * time.Minute,
	}
}

// Runner executes the maintenance jobs
type Runner struct {
	config    Config
	outbox    OutboxCleaner
	keys      KeyCleaner
	pickTasks OverdueCounter
	logger    *logging.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewRunner creates a Runner. keys and m may be nil.
func NewRunner(config Config, outbox OutboxCleaner, keys KeyCleaner, pickTasks OverdueCounter, logger *logging.Logger, m *metrics.Metrics) *Runner {
	return &Runner{
		config:    config,
		outbox:    outbox,
		keys:      keys,
		pickTasks: pickTasks,
		logger:    logger.WithComponent("jobs"),
		metrics:   m,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CleanOutbox deletes published events older than the retention
func (r *Runner) CleanOutbox(ctx context.Context) error {
	deleted, err := r.outbox.Prune(ctx, r.config.OutboxRetention)
	if err != nil {
		return fmt.Errorf("failed to clean outbox: %w", err)
	}
	r.logger.Info("Outbox cleaned", "deleted", deleted, "retention", r.config.OutboxRetention.String())
	return nil
}

// CleanIdempotencyKeys deletes expired idempotency keys
func (r *Runner) CleanIdempotencyKeys(ctx context.Context) error {
	if r.keys == nil {
		return nil
	}
	deleted, err := r.keys.Purge(ctx, r.now())
	if err != nil {
		return fmt.Errorf("failed to clean idempotency keys: %w", err)
	}
	r.logger.Info("Idempotency keys cleaned", "deleted", deleted)
	return nil
}

// CheckOverduePickTasks publishes the overdue pick task count
func (r *Runner) CheckOverduePickTasks(ctx context.Context) (int64, error) {
	count, err := r.pickTasks.CountOverdue(ctx, r.now())
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue pick tasks: %w", err)
	}
	if r.metrics != nil {
		r.metrics.SetPickTasksOverdue(int(count))
	}
	if count > 0 {
		r.logger.Warn("Pick tasks overdue", "count", count)
	}
	return count, nil
}

// Schedule registers every job on s. Jobs stop running when ctx is done.
func (r *Runner) Schedule(ctx context.Context, s gocron.Scheduler) error {
	jobs := []struct {
		name     string
		interval time.Duration
		run      func(context.Context) error
	}{
		{OutboxCleanup, r.config.CleanupInterval, r.CleanOutbox},
		{IdempotencyCleanup, r.config.CleanupInterval, r.CleanIdempotencyKeys},
		{OverduePickTasks, r.config.OverdueInterval, func(ctx context.Context) error {
			_, err := r.CheckOverduePickTasks(ctx)
			return err
		}},
	}

	for _, job := range jobs {
		job := job
		_, err := s.NewJob(
			gocron.DurationJob(job.interval),
			gocron.NewTask(func() {
				if ctx.Err() != nil {
					return
				}
				err := tracing.InSpan(ctx, "warehouse-ops/jobs", job.name, job.run,
					attribute.String("job.name", job.name))
				if err != nil {
					r.logger.WithError(err).Error("Job failed", "job", job.name)
				}
			}),
			gocron.WithName(job.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule %s: %w", job.name, err)
		}
	}
	return nil
}
