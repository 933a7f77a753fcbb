// Package storage provides persistence for ReadyDay.
package storage

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/readyday/readyday/internal/core"
)

// WorkoutStore persists Whoop workout activities
type WorkoutStore struct {
	db *DB
}

// NewWorkoutStore creates a new workout store
func NewWorkoutStore(db *DB) *WorkoutStore {
	return &WorkoutStore{db: db}
}

// Upsert inserts or replaces a workout
func (s *WorkoutStore) Upsert(userID uuid.UUID, w core.WorkoutData) error {
	var z0, z1, z2, z3, z4, z5 interface{}
	if w.Zones != nil {
		z0, z1, z2 = w.Zones.Zone0Millis, w.Zones.Zone1Millis, w.Zones.Zone2Millis
		z3, z4, z5 = w.Zones.Zone3Millis, w.Zones.Zone4Millis, w.Zones.Zone5Millis
	}

	_, err := s.db.conn.Exec(`
		INSERT OR REPLACE INTO workouts (
			workout_id, user_id, sport_name, start_time, end_time, score_state,
			strain, average_heart_rate, max_heart_rate, kilojoule, distance_meter,
			zone0_millis, zone1_millis, zone2_millis,
			zone3_millis, zone4_millis, zone5_millis, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		w.WorkoutID.String(), userID.String(), w.SportName, w.Start.UTC(), w.End.UTC(),
		w.ScoreState, w.Strain, w.AverageHeartRate, w.MaxHeartRate,
		w.Kilojoule, w.DistanceMeter,
		z0, z1, z2, z3, z4, z5, w.RecordedAt.UTC(),
	)
	return err
}

// Recent returns workouts recorded within the last N days, newest first.
func (s *WorkoutStore) Recent(userID uuid.UUID, days int) ([]core.WorkoutData, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := s.db.conn.Query(`
		SELECT workout_id, sport_name, start_time, end_time, score_state,
		       strain, average_heart_rate, max_heart_rate, kilojoule, distance_meter,
		       zone0_millis, zone1_millis, zone2_millis,
		       zone3_millis, zone4_millis, zone5_millis, recorded_at
		FROM workouts
		WHERE user_id = ? AND recorded_at >= ?
		ORDER BY recorded_at DESC
	`, userID.String(), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []core.WorkoutData
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

func scanWorkout(row rowScanner) (core.WorkoutData, error) {
	var w core.WorkoutData
	var idStr string
	var sport sql.NullString
	var strain, kilojoule, distance sql.NullFloat64
	var avgHR, maxHR sql.NullInt64
	var z0, z1, z2, z3, z4, z5 sql.NullInt64

	err := row.Scan(
		&idStr, &sport, &w.Start, &w.End, &w.ScoreState,
		&strain, &avgHR, &maxHR, &kilojoule, &distance,
		&z0, &z1, &z2, &z3, &z4, &z5, &w.RecordedAt,
	)
	if err != nil {
		return core.WorkoutData{}, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return core.WorkoutData{}, err
	}
	w.WorkoutID = id
	w.SportName = sport.String

	if strain.Valid {
		w.Strain = &strain.Float64
	}
	if avgHR.Valid {
		v := int(avgHR.Int64)
		w.AverageHeartRate = &v
	}
	if maxHR.Valid {
		v := int(maxHR.Int64)
		w.MaxHeartRate = &v
	}
	if kilojoule.Valid {
		w.Kilojoule = &kilojoule.Float64
	}
	if distance.Valid {
		w.DistanceMeter = &distance.Float64
	}
	if z0.Valid || z1.Valid || z2.Valid || z3.Valid || z4.Valid || z5.Valid {
		w.Zones = &core.ZoneDurations{
			Zone0Millis: z0.Int64, Zone1Millis: z1.Int64, Zone2Millis: z2.Int64,
			Zone3Millis: z3.Int64, Zone4Millis: z4.Int64, Zone5Millis: z5.Int64,
		}
	}

	return w, nil
}
