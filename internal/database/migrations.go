package database

import (
	"fmt"
	"log/slog"
)

// RunMigrations creates the reservations/users schema if it does not exist.
// Migrations are idempotent and run on every startup.
func (db *DB) RunMigrations() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS reservations (
			reservation_id TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL,
			table_id       TEXT NOT NULL,
			date           TEXT NOT NULL,
			slot_type      TEXT NOT NULL CHECK (slot_type IN ('AM', 'PM', 'FULL_DAY')),
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations (date)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_user ON reservations (user_id, date)`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			email   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS store_meta (
			id      INT PRIMARY KEY CHECK (id = 1),
			version BIGINT NOT NULL
		)`,
		`INSERT INTO store_meta (id, version) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("Database migrations completed", "count", len(migrations))
	return nil
}
