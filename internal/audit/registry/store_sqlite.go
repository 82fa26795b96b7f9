// Package registry stores records received from workstations. This is
// the server side of the remote sink: other installations post their
// audit records here.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"medilabel/internal/audit"
)

type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Append stores one record and returns its registry ID.
func (s *SQLiteStore) Append(ctx context.Context, record audit.Record) (int64, error) {
	if record.PrintedAt.IsZero() {
		record.PrintedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO printed_labels_audit
		 (patient_id, patient_year, patient_name, drug_name, instruction_text, printed_by, printed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.PatientID, record.PatientYear, record.PatientName,
		record.DrugName, record.Instruction, record.PrintedBy, record.PrintedAt)
	if err != nil {
		return 0, fmt.Errorf("append registry record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("registry record id: %w", err)
	}
	return id, nil
}

type row struct {
	PatientID   int       `db:"patient_id"`
	PatientYear int       `db:"patient_year"`
	PatientName string    `db:"patient_name"`
	DrugName    string    `db:"drug_name"`
	Instruction string    `db:"instruction_text"`
	PrintedBy   string    `db:"printed_by"`
	PrintedAt   time.Time `db:"printed_at"`
}

func (s *SQLiteStore) List(ctx context.Context) ([]audit.Record, error) {
	rows := []row{}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT patient_id, patient_year, patient_name, drug_name, instruction_text, printed_by, printed_at
		 FROM printed_labels_audit ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list registry records: %w", err)
	}

	records := make([]audit.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, audit.Record{
			PatientID:   r.PatientID,
			PatientYear: r.PatientYear,
			PatientName: r.PatientName,
			DrugName:    r.DrugName,
			Instruction: r.Instruction,
			PrintedBy:   r.PrintedBy,
			PrintedAt:   r.PrintedAt,
		})
	}
	return records, nil
}
