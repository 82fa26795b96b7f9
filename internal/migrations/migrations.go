package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Run creates the schema for the label printing backend. Statements are
// idempotent so startup can always run them.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS drugs (
            drug_name TEXT PRIMARY KEY,
            international_code TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS usage_instructions (
            drug_name TEXT PRIMARY KEY,
            instruction_text TEXT NOT NULL,
            FOREIGN KEY(drug_name) REFERENCES drugs(drug_name)
        );`,
		`CREATE TABLE IF NOT EXISTS patients (
            patient_id INTEGER NOT NULL,
            year INTEGER NOT NULL,
            patient_name TEXT NOT NULL,
            national_id TEXT,
            PRIMARY KEY (patient_id, year)
        );`,
		`CREATE TABLE IF NOT EXISTS operators (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            full_name TEXT NOT NULL,
            access_level TEXT NOT NULL DEFAULT 'staff',
            is_active INTEGER NOT NULL DEFAULT 1
        );`,
		`CREATE TABLE IF NOT EXISTS print_queue (
            id TEXT PRIMARY KEY,
            drug_name TEXT NOT NULL,
            instruction_text TEXT NOT NULL,
            expiry_month TEXT NOT NULL DEFAULT '',
            expiry_year TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS printed_labels_audit (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            patient_id INTEGER NOT NULL,
            patient_year INTEGER NOT NULL,
            patient_name TEXT NOT NULL,
            drug_name TEXT NOT NULL,
            instruction_text TEXT NOT NULL,
            printed_by TEXT NOT NULL,
            printed_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
