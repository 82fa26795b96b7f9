package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// DatabaseDSN points at the embedded sqlite database holding the
	// catalog, patient directory, operators, basket queue, and the
	// audit table served to peers.
	DatabaseDSN string

	// CatalogSeedPath is an optional CSV to ingest into the catalog at
	// startup. Empty skips seeding.
	CatalogSeedPath string

	// AuditLogDir is the badger directory for the client-resident local
	// audit log.
	AuditLogDir string

	// RemoteAuditURL is the base URL of the remote audit sink. Empty
	// disables remote writes entirely (the probe is never attempted and
	// every session audits locally).
	RemoteAuditURL string

	// ProbeTimeout bounds the per-session remote sink capability probe
	// and each remote write.
	ProbeTimeout time.Duration

	// SpoolDir is where rendered label pages are written for the print
	// dialog to pick up.
	SpoolDir string

	// PrintedBy is the fixed attribution printed on every label.
	PrintedBy string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:            envOr("MEDILABEL_ADDR", ":8080"),
		DatabaseDSN:     envOr("MEDILABEL_DB", "medilabel.db"),
		CatalogSeedPath: os.Getenv("MEDILABEL_CATALOG_CSV"),
		AuditLogDir:     envOr("MEDILABEL_AUDIT_DIR", "audit-log"),
		RemoteAuditURL:  os.Getenv("MEDILABEL_AUDIT_URL"),
		ProbeTimeout:    3 * time.Second,
		SpoolDir:        envOr("MEDILABEL_SPOOL_DIR", "labels"),
		PrintedBy:       envOr("MEDILABEL_PRINTED_BY", "Dr Mahmoud"),
	}
	if raw := os.Getenv("MEDILABEL_PROBE_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.ProbeTimeout = d
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
