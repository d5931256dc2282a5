package idempotency

import (
	"context"
	"sync"
	"time"
)

// Store persists idempotency records. Reserve must be atomic per
// (service, key).
type Store interface {
	// Reserve inserts rec, or returns the record already held under the same
	// key. The boolean is true when rec was inserted.
	Reserve(ctx context.Context, rec *Record) (*Record, bool, error)
	// Complete stores the response of a reserved record
	Complete(ctx context.Context, id string, resp Response) error
	// Release forgets an uncompleted record so the key can be retried
	Release(ctx context.Context, id string) error
	// Purge removes records that expired before the given time
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// MemoryStore keeps records in process memory
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
	byID    map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
		byID:    make(map[string]string),
	}
}

func (s *MemoryStore) Reserve(_ context.Context, rec *Record) (*Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := rec.Service + "\x00" + rec.Key
	if held, ok := s.records[slot]; ok {
		copied := *held
		return &copied, false, nil
	}

	stored := *rec
	s.records[slot] = &stored
	s.byID[rec.ID] = slot
	copied := stored
	return &copied, true, nil
}

func (s *MemoryStore) Complete(_ context.Context, id string, resp Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[s.byID[id]]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	resp.Body = append([]byte(nil), resp.Body...)
	rec.Response = &resp
	rec.CompletedAt = &now
	return nil
}

func (s *MemoryStore) Release(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if s.records[slot].CompletedAt == nil {
		delete(s.records, slot)
		delete(s.byID, id)
	}
	return nil
}

func (s *MemoryStore) Purge(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for slot, rec := range s.records {
		if rec.ExpiresAt.Before(before) {
			delete(s.records, slot)
			delete(s.byID, rec.ID)
			purged++
		}
	}
	return purged, nil
}
