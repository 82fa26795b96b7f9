package patient

import (
	"context"
	"fmt"
	"sync"

	"medilabel/pkg/platform/sentinel"
)

type patientKey struct {
	id   int
	year int
}

// InMemoryDirectory backs tests and demo setups that do not need sqlite.
type InMemoryDirectory struct {
	mu       sync.RWMutex
	patients map[patientKey]Patient
}

func NewInMemoryDirectory(patients ...Patient) *InMemoryDirectory {
	d := &InMemoryDirectory{patients: make(map[patientKey]Patient, len(patients))}
	for _, p := range patients {
		d.patients[patientKey{id: p.PatientID, year: p.Year}] = p
	}
	return d
}

func (d *InMemoryDirectory) FindPatient(_ context.Context, patientID, year int) (Patient, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.patients[patientKey{id: patientID, year: year}]
	if !ok {
		return Patient{}, fmt.Errorf("patient %d/%d: %w", patientID, year, sentinel.ErrNotFound)
	}
	return p, nil
}

func (d *InMemoryDirectory) Add(p Patient) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.patients[patientKey{id: p.PatientID, year: p.Year}] = p
}
