// Package storage provides persistence for ReadyDay.
package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/readyday/readyday/internal/core"
)

// BriefingStore caches generated briefings by date
type BriefingStore struct {
	db *DB
}

// NewBriefingStore creates a new briefing store
func NewBriefingStore(db *DB) *BriefingStore {
	return &BriefingStore{db: db}
}

// Save stores a briefing, replacing any earlier one for the same date
func (s *BriefingStore) Save(userID uuid.UUID, briefing *core.DayBriefing) error {
	payload, err := json.Marshal(briefing)
	if err != nil {
		return err
	}

	_, err = s.db.conn.Exec(`
		INSERT INTO briefings (id, user_id, briefing_date, payload, generated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, briefing_date) DO UPDATE SET
			payload = excluded.payload,
			generated_at = excluded.generated_at
	`,
		uuid.New().String(), userID.String(),
		briefing.Date.Format("2006-01-02"),
		string(payload), time.Now().UTC(),
	)
	return err
}

// GetByDate returns the cached briefing for a date.
// Returns core.ErrRecordNotFound when no briefing exists for that date.
func (s *BriefingStore) GetByDate(userID uuid.UUID, date time.Time) (*core.DayBriefing, error) {
	var payload string
	err := s.db.conn.QueryRow(`
		SELECT payload FROM briefings
		WHERE user_id = ? AND briefing_date = ?
	`, userID.String(), date.Format("2006-01-02")).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, core.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	var briefing core.DayBriefing
	if err := json.Unmarshal([]byte(payload), &briefing); err != nil {
		return nil, err
	}
	return &briefing, nil
}
