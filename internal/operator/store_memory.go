package operator

import (
	"context"
	"fmt"
	"sync"

	"medilabel/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	operators map[string]Operator
}

func NewInMemoryStore(operators ...Operator) *InMemoryStore {
	s := &InMemoryStore{operators: make(map[string]Operator, len(operators))}
	for _, op := range operators {
		s.operators[op.Username] = op
	}
	return s
}

func (s *InMemoryStore) FindByUsername(_ context.Context, username string) (Operator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, ok := s.operators[username]
	if !ok {
		return Operator{}, fmt.Errorf("operator %q: %w", username, sentinel.ErrNotFound)
	}
	return op, nil
}
