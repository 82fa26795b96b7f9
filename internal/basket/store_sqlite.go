package basket

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medilabel/pkg/platform/sentinel"
)

// SQLiteStore persists the queue in the print_queue table so an
// unexpected restart does not lose a half-built basket. Insertion order
// is the rowid order.
type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Add(ctx context.Context, line Line) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO print_queue (id, drug_name, instruction_text, expiry_month, expiry_year)
		 VALUES (?, ?, ?, ?, ?)`,
		line.ID, line.DrugName, line.Instruction, line.ExpiryMonth, line.ExpiryYear)
	if err != nil {
		return fmt.Errorf("add basket line: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Line, error) {
	lines := []Line{}
	err := s.db.SelectContext(ctx, &lines,
		`SELECT id, drug_name, instruction_text, expiry_month, expiry_year
		 FROM print_queue ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list basket: %w", err)
	}
	return lines, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Line, error) {
	var line Line
	err := s.db.GetContext(ctx, &line,
		`SELECT id, drug_name, instruction_text, expiry_month, expiry_year
		 FROM print_queue WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Line{}, fmt.Errorf("basket line %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return Line{}, fmt.Errorf("get basket line: %w", err)
	}
	return line, nil
}

func (s *SQLiteStore) SetExpiryMonth(ctx context.Context, id, month string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE print_queue SET expiry_month = ? WHERE id = ?`, month, id)
	if err != nil {
		return fmt.Errorf("set expiry month: %w", err)
	}
	return s.requireRow(res, id)
}

func (s *SQLiteStore) SetExpiryYear(ctx context.Context, id, year string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE print_queue SET expiry_year = ? WHERE id = ?`, year, id)
	if err != nil {
		return fmt.Errorf("set expiry year: %w", err)
	}
	return s.requireRow(res, id)
}

// Remove deletes the line if present; a missing ID is not an error.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM print_queue WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remove basket line: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM print_queue`); err != nil {
		return fmt.Errorf("clear basket: %w", err)
	}
	return nil
}

func (s *SQLiteStore) requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("basket line %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}
