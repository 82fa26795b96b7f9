package operator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medilabel/pkg/platform/sentinel"
)

type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) FindByUsername(ctx context.Context, username string) (Operator, error) {
	var op Operator
	err := s.db.GetContext(ctx, &op,
		`SELECT id, username, password, full_name, access_level, is_active
		 FROM operators WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return Operator{}, fmt.Errorf("operator %q: %w", username, sentinel.ErrNotFound)
	}
	if err != nil {
		return Operator{}, fmt.Errorf("find operator %q: %w", username, err)
	}
	return op, nil
}
