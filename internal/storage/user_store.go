// Package storage provides persistence for ReadyDay.
package storage

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/readyday/readyday/internal/core"
)

// UserStore handles the single local user record
type UserStore struct {
	db *DB
}

// NewUserStore creates a new user store
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create creates the local user
func (s *UserStore) Create(name string) (*core.User, error) {
	now := time.Now().UTC()
	user := &core.User{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.conn.Exec(`
		INSERT INTO users (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, user.ID.String(), user.Name, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Get returns the local user
func (s *UserStore) Get() (*core.User, error) {
	var idStr string
	user := &core.User{}

	err := s.db.conn.QueryRow(`
		SELECT id, name, created_at, updated_at FROM users LIMIT 1
	`).Scan(&idStr, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	user.ID = id

	return user, nil
}

// CurrentUserID returns the local user's ID, or false if no user exists yet
func (s *UserStore) CurrentUserID() (uuid.UUID, bool) {
	user, err := s.Get()
	if err != nil {
		return uuid.Nil, false
	}
	return user.ID, true
}
