// Package secrets encrypts stored OAuth credentials at rest.
// Keys are derived from a passphrase with Argon2id and data is sealed
// with XChaCha20-Poly1305.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Argon2id parameters
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLen       = 32
	saltLen      = 32
)

var errCiphertextTooShort = errors.New("ciphertext too short")

// Box seals and opens byte payloads with a passphrase-derived key.
type Box struct {
	key []byte
}

// SealedPayload is the storable form of an encrypted payload.
type SealedPayload struct {
	Ciphertext string `json:"ciphertext"` // Base64, nonce-prefixed
	Salt       string `json:"salt"`       // Base64
	Algorithm  string `json:"algorithm"`  // "argon2id"
}

// NewBox derives a key from the passphrase and the given salt.
func NewBox(passphrase string, salt []byte) *Box {
	key := argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keyLen)
	return &Box{key: key}
}

// Seal encrypts data with a fresh salt and nonce.
func Seal(passphrase string, data []byte) (*SealedPayload, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	box := NewBox(passphrase, salt)
	aead, err := chacha20poly1305.NewX(box.key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, data, nil)

	return &SealedPayload{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed),
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Algorithm:  "argon2id",
	}, nil
}

// Open decrypts a sealed payload with the passphrase it was sealed under.
func Open(passphrase string, payload *SealedPayload) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(payload.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	sealed, err := base64.StdEncoding.DecodeString(payload.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}

	box := NewBox(passphrase, salt)
	aead, err := chacha20poly1305.NewX(box.key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	if len(sealed) < aead.NonceSize() {
		return nil, errCiphertextTooShort
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]

	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plain, nil
}

// SealJSON marshals v and seals the result.
func SealJSON(passphrase string, v interface{}) (*SealedPayload, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return Seal(passphrase, data)
}

// OpenJSON opens a sealed payload and unmarshals it into v.
func OpenJSON(passphrase string, payload *SealedPayload, v interface{}) error {
	data, err := Open(passphrase, payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
