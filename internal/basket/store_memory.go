package basket

import (
	"context"
	"fmt"
	"sync"

	"medilabel/pkg/platform/sentinel"
)

// InMemoryStore keeps lines in a map plus an order slice so List always
// returns the queue in the order the pharmacist built it.
type InMemoryStore struct {
	mu    sync.RWMutex
	lines map[string]Line
	order []string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{lines: make(map[string]Line)}
}

func (s *InMemoryStore) Add(_ context.Context, line Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lines[line.ID]; exists {
		return fmt.Errorf("basket line %s: %w", line.ID, sentinel.ErrConflict)
	}
	s.lines[line.ID] = line
	s.order = append(s.order, line.ID)
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.lines[id])
	}
	return out, nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	line, ok := s.lines[id]
	if !ok {
		return Line{}, fmt.Errorf("basket line %s: %w", id, sentinel.ErrNotFound)
	}
	return line, nil
}

func (s *InMemoryStore) SetExpiryMonth(_ context.Context, id, month string) error {
	return s.update(id, func(line *Line) { line.ExpiryMonth = month })
}

func (s *InMemoryStore) SetExpiryYear(_ context.Context, id, year string) error {
	return s.update(id, func(line *Line) { line.ExpiryYear = year })
}

func (s *InMemoryStore) update(id string, mutate func(*Line)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[id]
	if !ok {
		return fmt.Errorf("basket line %s: %w", id, sentinel.ErrNotFound)
	}
	mutate(&line)
	s.lines[id] = line
	return nil
}

// Remove is a no-op for IDs that are already gone.
func (s *InMemoryStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.lines, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = make(map[string]Line)
	s.order = nil
	return nil
}
