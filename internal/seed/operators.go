package seed

import (
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// EnsureDefaultOperator creates the standing admin account on an empty
// operators table so a fresh install can log in at all.
func EnsureDefaultOperator(db *sqlx.DB, logger *slog.Logger) error {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM operators`); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err := db.Exec(
		`INSERT INTO operators (username, password, full_name, access_level, is_active)
		 VALUES (?, ?, ?, ?, 1)`,
		"admin", "admin", "Dr Mahmoud", "admin")
	if err != nil {
		return err
	}
	logger.Info("seeded default operator", "username", "admin")
	return nil
}
