// Package storage provides persistence for ReadyDay.
package storage

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/readyday/readyday/internal/core"
)

// SleepStore persists Whoop sleep sessions
type SleepStore struct {
	db *DB
}

// NewSleepStore creates a new sleep store
func NewSleepStore(db *DB) *SleepStore {
	return &SleepStore{db: db}
}

// Upsert inserts or replaces a sleep session
func (s *SleepStore) Upsert(userID uuid.UUID, sleep core.SleepData) error {
	var light, deep, rem, wake interface{}
	if sleep.Stages != nil {
		light = sleep.Stages.LightMillis
		deep = sleep.Stages.DeepMillis
		rem = sleep.Stages.REMMillis
		wake = sleep.Stages.WakeMillis
	}

	_, err := s.db.conn.Exec(`
		INSERT OR REPLACE INTO sleeps (
			sleep_id, user_id, start_time, end_time, nap, score_state,
			light_millis, deep_millis, rem_millis, wake_millis,
			sleep_needed_milli, sleep_debt_milli,
			efficiency, consistency, respiratory_rate, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sleep.SleepID.String(), userID.String(), sleep.Start.UTC(), sleep.End.UTC(),
		sleep.Nap, sleep.ScoreState,
		light, deep, rem, wake,
		sleep.SleepNeededMilli, sleep.SleepDebtMilli,
		sleep.Efficiency, sleep.Consistency, sleep.RespiratoryRate,
		sleep.RecordedAt.UTC(),
	)
	return err
}

// Latest returns the most recent sleep session for the user.
// Returns core.ErrNoSleepData when no record exists.
func (s *SleepStore) Latest(userID uuid.UUID) (core.SleepData, error) {
	row := s.db.conn.QueryRow(sleepSelect+`
		WHERE user_id = ?
		ORDER BY recorded_at DESC
		LIMIT 1
	`, userID.String())

	sleep, err := scanSleep(row)
	if err == sql.ErrNoRows {
		return core.SleepData{}, core.ErrNoSleepData
	}
	return sleep, err
}

// Trend returns sleep sessions recorded within the last N days, newest first.
func (s *SleepStore) Trend(userID uuid.UUID, days int) ([]core.SleepData, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := s.db.conn.Query(sleepSelect+`
		WHERE user_id = ? AND recorded_at >= ?
		ORDER BY recorded_at DESC
	`, userID.String(), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sleeps []core.SleepData
	for rows.Next() {
		sleep, err := scanSleep(rows)
		if err != nil {
			return nil, err
		}
		sleeps = append(sleeps, sleep)
	}
	return sleeps, rows.Err()
}

const sleepSelect = `
	SELECT sleep_id, start_time, end_time, nap, score_state,
	       light_millis, deep_millis, rem_millis, wake_millis,
	       sleep_needed_milli, sleep_debt_milli,
	       efficiency, consistency, respiratory_rate, recorded_at
	FROM sleeps
`

func scanSleep(row rowScanner) (core.SleepData, error) {
	var sleep core.SleepData
	var idStr string
	var light, deep, rem, wake, needed, debt sql.NullInt64
	var efficiency, consistency, respRate sql.NullFloat64

	err := row.Scan(
		&idStr, &sleep.Start, &sleep.End, &sleep.Nap, &sleep.ScoreState,
		&light, &deep, &rem, &wake,
		&needed, &debt,
		&efficiency, &consistency, &respRate, &sleep.RecordedAt,
	)
	if err != nil {
		return core.SleepData{}, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return core.SleepData{}, err
	}
	sleep.SleepID = id

	if light.Valid || deep.Valid || rem.Valid || wake.Valid {
		sleep.Stages = &core.StageSummary{
			LightMillis: light.Int64,
			DeepMillis:  deep.Int64,
			REMMillis:   rem.Int64,
			WakeMillis:  wake.Int64,
		}
	}
	if needed.Valid {
		sleep.SleepNeededMilli = &needed.Int64
	}
	if debt.Valid {
		sleep.SleepDebtMilli = &debt.Int64
	}
	if efficiency.Valid {
		sleep.Efficiency = &efficiency.Float64
	}
	if consistency.Valid {
		sleep.Consistency = &consistency.Float64
	}
	if respRate.Valid {
		sleep.RespiratoryRate = &respRate.Float64
	}

	return sleep, nil
}
