package secrets

import (
	"testing"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	plaintext := []byte("refresh-token-abc123")

	payload, err := Seal("correct horse", plaintext)
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	if payload.Algorithm != "argon2id" {
		t.Errorf("algorithm = %q, want argon2id", payload.Algorithm)
	}

	got, err := Open("correct horse", payload)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if string(got) != string(plaintext) {
		t.Errorf("Open() = %q, want %q", got, plaintext)
	}
}

func TestOpen_WrongPassphrase(t *testing.T) {
	payload, err := Seal("right", []byte("data"))
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}

	if _, err := Open("wrong", payload); err == nil {
		t.Error("Open() with wrong passphrase should fail")
	}
}

func TestSeal_FreshSaltPerCall(t *testing.T) {
	a, err := Seal("pass", []byte("data"))
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	b, err := Seal("pass", []byte("data"))
	if err != nil {
		t.Fatalf("Seal() error: %v", err)
	}
	if a.Salt == b.Salt || a.Ciphertext == b.Ciphertext {
		t.Error("two seals of the same data must not share salt or ciphertext")
	}
}

func TestSealJSON_RoundTrip(t *testing.T) {
	type token struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}

	payload, err := SealJSON("pass", token{Access: "a", Refresh: "r"})
	if err != nil {
		t.Fatalf("SealJSON() error: %v", err)
	}

	var got token
	if err := OpenJSON("pass", payload, &got); err != nil {
		t.Fatalf("OpenJSON() error: %v", err)
	}
	if got.Access != "a" || got.Refresh != "r" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
