package outbox

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps messages in process memory
type MemoryStore struct {
	mu   sync.RWMutex
	msgs map[string]*Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{msgs: make(map[string]*Message)}
}

func (s *MemoryStore) Append(_ context.Context, msgs ...*Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range msgs {
		copied := *m
		s.msgs[m.ID] = &copied
	}
	return nil
}

// Checkpoint returns a function that drops every message appended after
// the call
func (s *MemoryStore) Checkpoint() func() {
	s.mu.RLock()
	known := make(map[string]struct{}, len(s.msgs))
	for id := range s.msgs {
		known[id] = struct{}{}
	}
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for id := range s.msgs {
			if _, ok := known[id]; !ok {
				delete(s.msgs, id)
			}
		}
	}
}

func (s *MemoryStore) collect(keep func(*Message) bool, limit int) []*Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Message
	for _, m := range s.msgs {
		if keep(m) {
			copied := *m
			out = append(out, &copied)
		}
	}
	slices.SortFunc(out, func(a, b *Message) int { return a.CreatedAt.Compare(b.CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *MemoryStore) Pending(_ context.Context, limit int) ([]*Message, error) {
	return s.collect((*Message).Pending, limit), nil
}

func (s *MemoryStore) ForAggregate(_ context.Context, aggregateID string) ([]*Message, error) {
	return s.collect(func(m *Message) bool { return m.AggregateID == aggregateID }, 0), nil
}

func (s *MemoryStore) update(id string, fn func(*Message)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.msgs[id]
	if !ok {
		return ErrUnknownMessage
	}
	fn(m)
	return nil
}

func (s *MemoryStore) MarkPublished(_ context.Context, id string) error {
	return s.update(id, func(m *Message) {
		now := time.Now().UTC()
		m.PublishedAt = &now
	})
}

func (s *MemoryStore) RecordFailure(_ context.Context, id, reason string) error {
	return s.update(id, func(m *Message) {
		m.Attempts++
		m.LastError = reason
	})
}

func (s *MemoryStore) Prune(_ context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var pruned int64
	for id, m := range s.msgs {
		if m.PublishedAt != nil && m.PublishedAt.Before(cutoff) {
			delete(s.msgs, id)
			pruned++
		}
	}
	return pruned, nil
}
