package catalog

import "context"

// Store is the read-only medication catalog. Implementations must return
// medications ordered by drug name.
type Store interface {
	ListMedications(ctx context.Context) ([]Medication, error)
	// FindMedication resolves a single catalog entry, used to default
	// instruction text when a basket line is added without an override.
	// Returns sentinel.ErrNotFound (wrapped) when the drug is unknown.
	FindMedication(ctx context.Context, drugName string) (Medication, error)
}
