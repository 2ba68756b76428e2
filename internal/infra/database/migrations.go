package database

import (
	"context"
	"fmt"
)

// Schema statements per dialect. Timestamps are unix seconds and dates are
// YYYY-MM-DD text so both backends scan into the same Go types.
var schema = map[Dialect][]string{
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS reminder_dispatches (
			id            BIGSERIAL PRIMARY KEY,
			target_date   VARCHAR(10) NOT NULL,
			iso_year      INTEGER NOT NULL,
			iso_week      INTEGER NOT NULL,
			phase         VARCHAR(16) NOT NULL,
			title         TEXT NOT NULL,
			body          TEXT NOT NULL,
			status        VARCHAR(16) NOT NULL,
			provider_id   TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			created_at    BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reminder_dispatches_target_date
			ON reminder_dispatches (target_date, status)`,
	},
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS reminder_dispatches (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			target_date   TEXT NOT NULL,
			iso_year      INTEGER NOT NULL,
			iso_week      INTEGER NOT NULL,
			phase         TEXT NOT NULL,
			title         TEXT NOT NULL,
			body          TEXT NOT NULL,
			status        TEXT NOT NULL,
			provider_id   TEXT NOT NULL DEFAULT '',
			error_message TEXT NOT NULL DEFAULT '',
			created_at    INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reminder_dispatches_target_date
			ON reminder_dispatches (target_date, status)`,
	},
}

func (db *DB) migrate(ctx context.Context) error {
	stmts, ok := schema[db.dialect]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", db.dialect)
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
