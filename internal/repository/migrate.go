package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Columns are portable across Postgres and SQLite: ids are uuid strings and
// timestamps fixed-width UTC text, so lexical order is chronological.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS case_files (
		id TEXT PRIMARY KEY,
		numero_raw TEXT NOT NULL,
		numero_normalized TEXT NOT NULL UNIQUE,
		fecha_inicio TEXT,
		first_seen_at TEXT NOT NULL,
		last_seen_at TEXT NOT NULL,
		seen_count INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS intake_jobs (
		id TEXT PRIMARY KEY,
		source_path TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		format TEXT NOT NULL,
		status TEXT NOT NULL,
		has_signal BOOLEAN NOT NULL DEFAULT FALSE,
		signals TEXT,
		numero_normalized TEXT,
		valid BOOLEAN NOT NULL DEFAULT FALSE,
		errors TEXT,
		case_file_id TEXT REFERENCES case_files(id),
		error_message TEXT,
		started_at TEXT NOT NULL,
		finished_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS intake_jobs_status_started ON intake_jobs (status, started_at)`,
	`CREATE INDEX IF NOT EXISTS intake_jobs_content_hash ON intake_jobs (content_hash)`,
	`CREATE INDEX IF NOT EXISTS intake_jobs_case_file ON intake_jobs (case_file_id)`,
}

// Migrate creates the tables when missing. It is idempotent.
func Migrate(ctx context.Context, db *DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for i, stmt := range schemaStatements {
		if _, err := db.SQL.ExecContext(ctx, stmt); err != nil {
			logger.Error("migration failed", "step", i, "error", err)
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	logger.Debug("migrations applied", "steps", len(schemaStatements), "dialect", db.Dialect)
	return nil
}

const tsLayout = "2006-01-02T15:04:05.000000Z07:00"

func formatTS(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTS(s string) (time.Time, error) {
	return time.Parse(tsLayout, s)
}
