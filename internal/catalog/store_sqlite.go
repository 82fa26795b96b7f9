package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medilabel/pkg/platform/sentinel"
)

// SQLiteStore serves the catalog from the embedded database. Instructions
// come from a LEFT JOIN so drugs without one still list with the default.
type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const listQuery = `
	SELECT d.drug_name,
	       COALESCE(i.instruction_text, ?) AS instruction,
	       COALESCE(d.international_code, '') AS international_code
	FROM drugs d
	LEFT JOIN usage_instructions i ON d.drug_name = i.drug_name
	ORDER BY d.drug_name`

func (s *SQLiteStore) ListMedications(ctx context.Context) ([]Medication, error) {
	meds := []Medication{}
	if err := s.db.SelectContext(ctx, &meds, listQuery, DefaultInstruction); err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return meds, nil
}

const findQuery = `
	SELECT d.drug_name,
	       COALESCE(i.instruction_text, ?) AS instruction,
	       COALESCE(d.international_code, '') AS international_code
	FROM drugs d
	LEFT JOIN usage_instructions i ON d.drug_name = i.drug_name
	WHERE d.drug_name = ?`

func (s *SQLiteStore) FindMedication(ctx context.Context, drugName string) (Medication, error) {
	var med Medication
	err := s.db.GetContext(ctx, &med, findQuery, DefaultInstruction, drugName)
	if errors.Is(err, sql.ErrNoRows) {
		return Medication{}, fmt.Errorf("medication %q: %w", drugName, sentinel.ErrNotFound)
	}
	if err != nil {
		return Medication{}, fmt.Errorf("find medication %q: %w", drugName, err)
	}
	return med, nil
}
