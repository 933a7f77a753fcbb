// Package storage provides persistence for ReadyDay.
package storage

import (
	"fmt"

	"github.com/readyday/readyday/internal/core"
)

type migration struct {
	name string
	sql  string
}

// Migrations run in order; append only, never edit an applied migration.
var migrations = []migration{
	{
		name: "001_users",
		sql: `
			CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);
		`,
	},
	{
		name: "002_whoop_records",
		sql: `
			CREATE TABLE IF NOT EXISTS recoveries (
				cycle_id INTEGER PRIMARY KEY,
				user_id TEXT NOT NULL,
				sleep_id TEXT,
				score_state TEXT NOT NULL,
				recovery_score INTEGER,
				resting_heart_rate REAL,
				hrv_rmssd_milli REAL,
				spo2_percentage REAL,
				skin_temp_celsius REAL,
				calibrating INTEGER NOT NULL DEFAULT 0,
				recorded_at TIMESTAMP NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_recoveries_user_recorded
				ON recoveries(user_id, recorded_at DESC);

			CREATE TABLE IF NOT EXISTS sleeps (
				sleep_id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				start_time TIMESTAMP NOT NULL,
				end_time TIMESTAMP NOT NULL,
				nap INTEGER NOT NULL DEFAULT 0,
				score_state TEXT NOT NULL,
				light_millis INTEGER,
				deep_millis INTEGER,
				rem_millis INTEGER,
				wake_millis INTEGER,
				sleep_needed_milli INTEGER,
				sleep_debt_milli INTEGER,
				efficiency REAL,
				consistency REAL,
				respiratory_rate REAL,
				recorded_at TIMESTAMP NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_sleeps_user_recorded
				ON sleeps(user_id, recorded_at DESC);

			CREATE TABLE IF NOT EXISTS workouts (
				workout_id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				sport_name TEXT,
				start_time TIMESTAMP NOT NULL,
				end_time TIMESTAMP NOT NULL,
				score_state TEXT NOT NULL,
				strain REAL,
				average_heart_rate INTEGER,
				max_heart_rate INTEGER,
				kilojoule REAL,
				distance_meter REAL,
				zone0_millis INTEGER,
				zone1_millis INTEGER,
				zone2_millis INTEGER,
				zone3_millis INTEGER,
				zone4_millis INTEGER,
				zone5_millis INTEGER,
				recorded_at TIMESTAMP NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_workouts_user_recorded
				ON workouts(user_id, recorded_at DESC);
		`,
	},
	{
		name: "003_briefings",
		sql: `
			CREATE TABLE IF NOT EXISTS briefings (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				briefing_date TEXT NOT NULL,
				payload TEXT NOT NULL,
				generated_at TIMESTAMP NOT NULL,
				UNIQUE(user_id, briefing_date)
			);
		`,
	},
	{
		name: "004_credentials",
		sql: `
			CREATE TABLE IF NOT EXISTS credentials (
				id TEXT PRIMARY KEY,
				provider TEXT NOT NULL UNIQUE,
				ciphertext TEXT NOT NULL,
				salt TEXT NOT NULL,
				algorithm TEXT NOT NULL,
				token_type TEXT,
				expires_at TIMESTAMP,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);
		`,
	},
}

// Migrate runs all pending migrations
func (db *DB) Migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS _migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: create migrations table: %v", core.ErrMigrationFailed, err)
	}

	applied, err := db.appliedMigrations()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.name] {
			continue
		}
		if err := db.applyMigration(m); err != nil {
			return fmt.Errorf("%w: %s: %v", core.ErrMigrationFailed, m.name, err)
		}
	}

	return nil
}

func (db *DB) appliedMigrations() (map[string]bool, error) {
	rows, err := db.conn.Query("SELECT name FROM _migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}

	return applied, rows.Err()
}

func (db *DB) applyMigration(m migration) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(m.sql); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO _migrations (name) VALUES (?)", m.name); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
