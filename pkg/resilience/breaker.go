package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wms-platform/warehouse-ops/pkg/logging"
)

// ErrCircuitOpen is returned when a breaker rejects a call without running it
var ErrCircuitOpen = errors.New("circuit breaker is open")

// StateObserver is notified about breaker state changes
type StateObserver interface {
	SetCircuitBreakerState(name string, state int)
	RecordCircuitBreakerTrip(name string)
}

// BreakerConfig decides when a dependency is considered down
type BreakerConfig struct {
	Name string
	// HalfOpenProbes is the number of calls let through while half-open
	HalfOpenProbes uint32
	// Window resets the counts while closed. Zero keeps counts forever.
	Window time.Duration
	// Cooldown is how long the breaker stays open
	Cooldown time.Duration
	// ConsecutiveFailures trips the breaker regardless of volume
	ConsecutiveFailures uint32
	// FailureRatio trips the breaker once MinSamples calls were seen in the window
	FailureRatio float64
	MinSamples   uint32
}

// CacheBreaker suits a best-effort cache: it trips fast and comes back fast
func CacheBreaker(name string) BreakerConfig {
	return BreakerConfig{
		Name:                name,
		HalfOpenProbes:      3,
		Window:              time.Minute,
		Cooldown:            15 * time.Second,
		ConsecutiveFailures: 5,
		FailureRatio:        0.5,
		MinSamples:          10,
	}
}

// BrokerBreaker suits an event broker where the outbox retries on its own
func BrokerBreaker(name string) BreakerConfig {
	return BreakerConfig{
		Name:                name,
		HalfOpenProbes:      5,
		Window:              time.Minute,
		Cooldown:            30 * time.Second,
		ConsecutiveFailures: 5,
		FailureRatio:        0.5,
		MinSamples:          10,
	}
}

func (c BreakerConfig) tripped(counts gobreaker.Counts) bool {
	if counts.ConsecutiveFailures >= c.ConsecutiveFailures {
		return true
	}
	if c.MinSamples == 0 || counts.Requests < c.MinSamples {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= c.FailureRatio
}

// Breaker guards calls to one downstream dependency
type Breaker struct {
	cb     *gobreaker.CircuitBreaker
	name   string
	logger *logging.Logger
}

// NewBreaker creates a breaker. logger and observer may be nil.
func NewBreaker(cfg BreakerConfig, logger *logging.Logger, observer StateObserver) *Breaker {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.WithComponent("breaker").WithFields(map[string]any{"breaker": cfg.Name})

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenProbes,
		Interval:    cfg.Window,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: cfg.tripped,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Dependency breaker changed state", "from", from.String(), "to", to.String())
			if observer == nil {
				return
			}
			observer.SetCircuitBreakerState(name, int(to))
			if to == gobreaker.StateOpen {
				observer.RecordCircuitBreakerTrip(name)
			}
		},
	})

	return &Breaker{cb: cb, name: cfg.Name, logger: logger}
}

// Name returns the guarded dependency name
func (b *Breaker) Name() string {
	return b.name
}

// Open reports whether calls are currently rejected
func (b *Breaker) Open() bool {
	return b.cb.State() == gobreaker.StateOpen
}

// Run executes fn unless the breaker is open
func (b *Breaker) Run(ctx context.Context, fn func(context.Context) error) error {
	_, err := Call(ctx, b, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Call executes fn through b and returns its result. A rejected call returns
// an error wrapping ErrCircuitOpen.
func Call[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	result, err := b.cb.Execute(func() (any, error) {
		return fn(ctx)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return zero, fmt.Errorf("%s: %w", b.name, ErrCircuitOpen)
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return zero, fmt.Errorf("%s: half-open request limit reached: %w", b.name, ErrCircuitOpen)
	case err != nil:
		return zero, err
	}
	value, _ := result.(T)
	return value, nil
}
