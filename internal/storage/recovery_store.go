// Package storage provides persistence for ReadyDay.
package storage

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/readyday/readyday/internal/core"
)

// RecoveryStore persists Whoop recovery cycles
type RecoveryStore struct {
	db *DB
}

// NewRecoveryStore creates a new recovery store
func NewRecoveryStore(db *DB) *RecoveryStore {
	return &RecoveryStore{db: db}
}

// Upsert inserts or replaces a recovery cycle
func (s *RecoveryStore) Upsert(userID uuid.UUID, rec core.RecoveryData) error {
	var sleepID interface{}
	if rec.SleepID != nil {
		sleepID = rec.SleepID.String()
	}

	_, err := s.db.conn.Exec(`
		INSERT OR REPLACE INTO recoveries (
			cycle_id, user_id, sleep_id, score_state, recovery_score,
			resting_heart_rate, hrv_rmssd_milli, spo2_percentage,
			skin_temp_celsius, calibrating, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.CycleID, userID.String(), sleepID, rec.ScoreState, rec.RecoveryScore,
		rec.RestingHeartRate, rec.HRVRmssdMilli, rec.SpO2Percentage,
		rec.SkinTempCelsius, rec.Calibrating, rec.RecordedAt.UTC(),
	)
	return err
}

// Latest returns the most recent recovery cycle for the user.
// Returns core.ErrNoRecoveryData when no record exists.
func (s *RecoveryStore) Latest(userID uuid.UUID) (core.RecoveryData, error) {
	row := s.db.conn.QueryRow(`
		SELECT cycle_id, sleep_id, score_state, recovery_score,
		       resting_heart_rate, hrv_rmssd_milli, spo2_percentage,
		       skin_temp_celsius, calibrating, recorded_at
		FROM recoveries
		WHERE user_id = ?
		ORDER BY recorded_at DESC
		LIMIT 1
	`, userID.String())

	rec, err := scanRecovery(row)
	if err == sql.ErrNoRows {
		return core.RecoveryData{}, core.ErrNoRecoveryData
	}
	return rec, err
}

// Trend returns recovery cycles recorded within the last N days, newest first.
func (s *RecoveryStore) Trend(userID uuid.UUID, days int) ([]core.RecoveryData, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := s.db.conn.Query(`
		SELECT cycle_id, sleep_id, score_state, recovery_score,
		       resting_heart_rate, hrv_rmssd_milli, spo2_percentage,
		       skin_temp_celsius, calibrating, recorded_at
		FROM recoveries
		WHERE user_id = ? AND recorded_at >= ?
		ORDER BY recorded_at DESC
	`, userID.String(), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []core.RecoveryData
	for rows.Next() {
		rec, err := scanRecovery(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecovery(row rowScanner) (core.RecoveryData, error) {
	var rec core.RecoveryData
	var sleepID sql.NullString
	var score sql.NullInt64
	var rhr, hrv, spo2, skinTemp sql.NullFloat64

	err := row.Scan(
		&rec.CycleID, &sleepID, &rec.ScoreState, &score,
		&rhr, &hrv, &spo2, &skinTemp,
		&rec.Calibrating, &rec.RecordedAt,
	)
	if err != nil {
		return core.RecoveryData{}, err
	}

	if sleepID.Valid {
		if id, parseErr := uuid.Parse(sleepID.String); parseErr == nil {
			rec.SleepID = &id
		}
	}
	if score.Valid {
		v := int(score.Int64)
		rec.RecoveryScore = &v
	}
	if rhr.Valid {
		rec.RestingHeartRate = &rhr.Float64
	}
	if hrv.Valid {
		rec.HRVRmssdMilli = &hrv.Float64
	}
	if spo2.Valid {
		rec.SpO2Percentage = &spo2.Float64
	}
	if skinTemp.Valid {
		rec.SkinTempCelsius = &skinTemp.Float64
	}

	return rec, nil
}
