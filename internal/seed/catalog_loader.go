package seed

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
)

// LoadCatalog ingests a medication CSV into the drugs and usage_instructions
// tables, ignoring duplicates. Expected columns: drug name, instruction,
// international code. A missing file is logged and skipped so a fresh
// install still boots.
func LoadCatalog(db *sqlx.DB, csvPath string, logger *slog.Logger) {
	file, err := os.Open(csvPath)
	if err != nil {
		logger.Warn("catalog seed skipped", "path", csvPath, "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		logger.Warn("unable to read catalog header", "error", err)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		logger.Warn("unable to start catalog transaction", "error", err)
		return
	}

	drugStmt, err := tx.Preparex(`INSERT OR IGNORE INTO drugs (drug_name, international_code) VALUES (?, ?)`)
	if err != nil {
		logger.Warn("unable to prepare drug insert", "error", err)
		_ = tx.Rollback()
		return
	}
	defer drugStmt.Close()

	instStmt, err := tx.Preparex(`INSERT OR IGNORE INTO usage_instructions (drug_name, instruction_text) VALUES (?, ?)`)
	if err != nil {
		logger.Warn("unable to prepare instruction insert", "error", err)
		_ = tx.Rollback()
		return
	}
	defer instStmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn("unable to read catalog row", "error", err)
			continue
		}
		if len(record) < 1 {
			continue
		}
		drugName := strings.TrimSpace(record[0])
		if drugName == "" {
			continue
		}
		var instruction, barcode string
		if len(record) > 1 {
			instruction = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			barcode = strings.TrimSpace(record[2])
		}

		if _, err := drugStmt.Exec(drugName, barcode); err != nil {
			logger.Warn("unable to insert drug", "drug", drugName, "error", err)
			continue
		}
		if instruction != "" {
			if _, err := instStmt.Exec(drugName, instruction); err != nil {
				logger.Warn("unable to insert instruction", "drug", drugName, "error", err)
			}
		}
		rows++
	}

	if err := tx.Commit(); err != nil {
		logger.Warn("unable to commit catalog seed", "error", err)
		return
	}
	logger.Info("seeded medication catalog", "rows", rows)
}
