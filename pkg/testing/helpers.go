package testing

import (
	"context"
	"testing"
	"time"
)

// CreateTestContext returns a context cancelled when the test ends or
// timeout elapses
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
