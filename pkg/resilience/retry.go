package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wms-platform/warehouse-ops/pkg/logging"
)

// Backoff describes an exponential retry schedule
type Backoff struct {
	Attempts   int
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// StartupBackoff is used while connecting to backing services at boot
func StartupBackoff() Backoff {
	return Backoff{
		Attempts:   5,
		Initial:    500 * time.Millisecond,
		Max:        5 * time.Second,
		Multiplier: 2,
	}
}

func (b Backoff) next(d time.Duration) time.Duration {
	d = time.Duration(float64(d) * b.Multiplier)
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// Retry calls fn until it succeeds, returns a permanent error or the
// schedule runs out. An open breaker counts as permanent.
func Retry(ctx context.Context, b Backoff, op string, logger *logging.Logger, fn func(context.Context) error) error {
	if logger == nil {
		logger = logging.NewNop()
	}
	attempts := max(b.Attempts, 1)
	delay := b.Initial

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		var permanent permanentError
		if errors.As(err, &permanent) {
			return permanent.err
		}
		if errors.Is(err, ErrCircuitOpen) || attempt == attempts {
			break
		}

		logger.Warn("Retrying after failure", "operation", op, "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = b.next(delay)
	}

	return fmt.Errorf("%s failed after retries: %w", op, err)
}
