package patient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medilabel/pkg/platform/sentinel"
)

type SQLiteDirectory struct {
	db *sqlx.DB
}

func NewSQLiteDirectory(db *sqlx.DB) *SQLiteDirectory {
	return &SQLiteDirectory{db: db}
}

func (d *SQLiteDirectory) FindPatient(ctx context.Context, patientID, year int) (Patient, error) {
	var p Patient
	err := d.db.GetContext(ctx, &p,
		`SELECT patient_id, year, patient_name, COALESCE(national_id, '') AS national_id
		 FROM patients WHERE patient_id = ? AND year = ?`, patientID, year)
	if errors.Is(err, sql.ErrNoRows) {
		return Patient{}, fmt.Errorf("patient %d/%d: %w", patientID, year, sentinel.ErrNotFound)
	}
	if err != nil {
		return Patient{}, fmt.Errorf("find patient %d/%d: %w", patientID, year, err)
	}
	return p, nil
}
