package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"medilabel/pkg/platform/sentinel"
)

// InMemoryStore backs tests and single-file deployments without sqlite.
type InMemoryStore struct {
	mu   sync.RWMutex
	meds map[string]Medication
}

func NewInMemoryStore(meds ...Medication) *InMemoryStore {
	s := &InMemoryStore{meds: make(map[string]Medication, len(meds))}
	for _, m := range meds {
		if m.Instruction == "" {
			m.Instruction = DefaultInstruction
		}
		s.meds[m.DrugName] = m
	}
	return s
}

func (s *InMemoryStore) ListMedications(_ context.Context) ([]Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Medication, 0, len(s.meds))
	for _, m := range s.meds {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DrugName < out[j].DrugName })
	return out, nil
}

func (s *InMemoryStore) FindMedication(_ context.Context, drugName string) (Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if m, ok := s.meds[drugName]; ok {
		return m, nil
	}
	return Medication{}, fmt.Errorf("medication %q: %w", drugName, sentinel.ErrNotFound)
}
