package local

import (
	"context"
	"sort"
	"sync"

	"medilabel/internal/audit"
)

// InMemoryStore mirrors the badger store's key-ordered semantics for
// tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]audit.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]audit.Record)}
}

func (s *InMemoryStore) Append(_ context.Context, key []byte, record audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[string(key)] = record
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]audit.Record, 0, len(keys))
	for _, key := range keys {
		records = append(records, s.records[key])
	}
	return records, nil
}

func (s *InMemoryStore) Purge(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]audit.Record)
	return nil
}
