// Package storage provides persistence for ReadyDay.
package storage

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/readyday/readyday/internal/core"
	"github.com/readyday/readyday/internal/secrets"
)

// Provider identifies which connector a credential belongs to
type Provider string

const (
	ProviderWhoop  Provider = "whoop"
	ProviderGoogle Provider = "google"
)

// CredentialStore manages encrypted OAuth token persistence
type CredentialStore struct {
	db         *DB
	passphrase string
}

// NewCredentialStore creates a new credential store
func NewCredentialStore(db *DB, passphrase string) *CredentialStore {
	return &CredentialStore{db: db, passphrase: passphrase}
}

// Store seals and saves a credential payload for a provider
func (s *CredentialStore) Store(provider Provider, payload interface{}, tokenType string, expiresAt *time.Time) error {
	sealed, err := secrets.SealJSON(s.passphrase, payload)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	var existingID string
	err = s.db.conn.QueryRow(`SELECT id FROM credentials WHERE provider = ?`, provider).Scan(&existingID)

	if err == sql.ErrNoRows {
		_, err = s.db.conn.Exec(`
			INSERT INTO credentials (
				id, provider, ciphertext, salt, algorithm,
				token_type, expires_at, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			uuid.New().String(), provider,
			sealed.Ciphertext, sealed.Salt, sealed.Algorithm,
			tokenType, expiresAt, now, now,
		)
		return err
	}
	if err != nil {
		return err
	}

	_, err = s.db.conn.Exec(`
		UPDATE credentials SET
			ciphertext = ?, salt = ?, algorithm = ?,
			token_type = ?, expires_at = ?, updated_at = ?
		WHERE provider = ?
	`,
		sealed.Ciphertext, sealed.Salt, sealed.Algorithm,
		tokenType, expiresAt, now, provider,
	)
	return err
}

// Load opens the stored credential for a provider into v.
// Returns core.ErrNoCredentials when nothing is stored.
func (s *CredentialStore) Load(provider Provider, v interface{}) error {
	sealed := &secrets.SealedPayload{}
	err := s.db.conn.QueryRow(`
		SELECT ciphertext, salt, algorithm FROM credentials WHERE provider = ?
	`, provider).Scan(&sealed.Ciphertext, &sealed.Salt, &sealed.Algorithm)
	if err == sql.ErrNoRows {
		return core.ErrNoCredentials
	}
	if err != nil {
		return err
	}

	return secrets.OpenJSON(s.passphrase, sealed, v)
}

// Delete removes the stored credential for a provider
func (s *CredentialStore) Delete(provider Provider) error {
	_, err := s.db.conn.Exec(`DELETE FROM credentials WHERE provider = ?`, provider)
	return err
}

// Has reports whether a credential exists for a provider
func (s *CredentialStore) Has(provider Provider) bool {
	var id string
	err := s.db.conn.QueryRow(`SELECT id FROM credentials WHERE provider = ?`, provider).Scan(&id)
	return err == nil
}
