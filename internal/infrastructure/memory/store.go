package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/internal/infrastructure"
	"github.com/wms-platform/warehouse-ops/pkg/cloudevents"
	"github.com/wms-platform/warehouse-ops/pkg/outbox"
)

// table keeps deep copies of one aggregate type keyed by id
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[string]T
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	return &table[T]{rows: make(map[string]T), clone: clone}
}

// put stores a copy of row when the stored version still equals prev
func (t *table[T]) put(id string, prev int64, version func(T) int64, row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.rows[id]
	switch {
	case prev == 0 && ok:
		return domain.ErrConcurrentModification
	case prev != 0 && (!ok || version(existing) != prev):
		return domain.ErrConcurrentModification
	}
	t.rows[id] = t.clone(row)
	return nil
}

// checkpoint captures the current rows and returns a function that puts
// them back. Stored rows are replaced on write, never mutated, so a shallow
// copy of the map is enough.
func (t *table[T]) checkpoint() func() {
	t.mu.RLock()
	saved := maps.Clone(t.rows)
	t.mu.RUnlock()
	return func() {
		t.mu.Lock()
		t.rows = saved
		t.mu.Unlock()
	}
}

func (t *table[T]) get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	return t.clone(row), nil
}

func (t *table[T]) find(match func(T) bool) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, row := range t.rows {
		if match(row) {
			return t.clone(row), nil
		}
	}
	var zero T
	return zero, domain.ErrNotFound
}

func (t *table[T]) list(match func(T) bool, less func(a, b T) bool) []T {
	t.mu.RLock()
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if match == nil || match(row) {
			out = append(out, t.clone(row))
		}
	}
	t.mu.RUnlock()

	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func (t *table[T]) remove(id string, prev int64, version func(T) int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	existing, ok := t.rows[id]
	if !ok || version(existing) != prev {
		return domain.ErrConcurrentModification
	}
	delete(t.rows, id)
	return nil
}

// events converts and stores the recorded events of an aggregate
type events struct {
	outbox  *outbox.MemoryStore
	factory *cloudevents.EventFactory
}

func (e *events) rows(ctx context.Context, aggregateType string, recorded []domain.DomainEvent) ([]*outbox.Message, error) {
	return infrastructure.OutboxEvents(ctx, e.factory, aggregateType, recorded)
}

func (e *events) append(ctx context.Context, rows []*outbox.Message) error {
	if len(rows) == 0 {
		return nil
	}
	if err := e.outbox.Append(ctx, rows...); err != nil {
		return fmt.Errorf("failed to save outbox events: %w", err)
	}
	return nil
}

func timePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func intPtr(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
