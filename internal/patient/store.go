package patient

import "context"

// Directory is the read-only patient lookup. Exact match only; callers are
// responsible for validating that id and year are integers before calling.
type Directory interface {
	// FindPatient returns sentinel.ErrNotFound (wrapped) when no record
	// matches both id and year.
	FindPatient(ctx context.Context, patientID, year int) (Patient, error)
}
