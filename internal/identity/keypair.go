package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

// KeyPair is an X25519 key pair for the Reality handshake, both halves
// base64url encoded without padding (the encoding sing-box emits). The
// private key goes into the server config only, the public key into client
// links only.
type KeyPair struct {
	Private string
	Public  string
}

// Validate checks that Public is the X25519 counterpart of Private. The pair
// is always derived, never independently supplied, so a mismatch means a
// broken key source.
func (k KeyPair) Validate() error {
	if k.Private == "" || k.Public == "" {
		return &KeyGenerationError{Reason: "incomplete key pair"}
	}
	priv, err := base64.RawURLEncoding.DecodeString(k.Private)
	if err != nil {
		return &KeyGenerationError{Reason: "private key is not base64url", Err: err}
	}
	if len(priv) != curve25519.ScalarSize {
		return &KeyGenerationError{Reason: fmt.Sprintf("private key is %d bytes, want %d", len(priv), curve25519.ScalarSize)}
	}
	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return &KeyGenerationError{Reason: "derive public key", Err: err}
	}
	if base64.RawURLEncoding.EncodeToString(pub) != k.Public {
		return &KeyGenerationError{Reason: "public key does not match private key"}
	}
	return nil
}

// LocalKeygen derives an X25519 pair in-process from crypto/rand.
type LocalKeygen struct{}

// GenerateKeyPair implements Keygen.
func (LocalKeygen) GenerateKeyPair(_ context.Context) (KeyPair, error) {
	priv := make([]byte, curve25519.ScalarSize)
	if _, err := rand.Read(priv); err != nil {
		return KeyPair{}, &KeyGenerationError{Reason: "read random", Err: err}
	}
	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return KeyPair{}, &KeyGenerationError{Reason: "derive public key", Err: err}
	}
	return KeyPair{
		Private: base64.RawURLEncoding.EncodeToString(priv),
		Public:  base64.RawURLEncoding.EncodeToString(pub),
	}, nil
}
