package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Connect opens the embedded sqlite database using the provided DSN.
// sqlite allows a single writer, so the pool is capped at one connection.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite %q: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
