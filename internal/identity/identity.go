package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ShortIDBytes is the raw length of a Reality short id before hex encoding.
const ShortIDBytes = 8

// Material bundles the per-run key material shared by every endpoint. It is
// generated once per provisioning run and never reused across runs.
type Material struct {
	Identity string
	KeyPair  KeyPair
	ShortID  string
}

// Keygen yields a Reality key pair. Implementations may shell out to an
// external binary or derive the pair locally.
type Keygen interface {
	GenerateKeyPair(ctx context.Context) (KeyPair, error)
}

// Generator produces fresh identity material from a random source and a
// key-pair collaborator.
type Generator struct {
	random io.Reader
	keygen Keygen
}

// NewGenerator wires a generator. A nil random source falls back to
// crypto/rand; keygen must not be nil.
func NewGenerator(random io.Reader, keygen Keygen) *Generator {
	if random == nil {
		random = rand.Reader
	}
	return &Generator{random: random, keygen: keygen}
}

// Generate returns a complete set of identity material. A key-generation
// failure aborts the whole run: no partial material is ever returned.
func (g *Generator) Generate(ctx context.Context) (Material, error) {
	id, err := uuid.NewRandomFromReader(g.random)
	if err != nil {
		return Material{}, fmt.Errorf("generate identity: %w", err)
	}

	pair, err := g.keygen.GenerateKeyPair(ctx)
	if err != nil {
		return Material{}, err
	}
	if err := pair.Validate(); err != nil {
		return Material{}, err
	}

	shortID, err := g.shortID()
	if err != nil {
		return Material{}, fmt.Errorf("generate short id: %w", err)
	}

	return Material{
		Identity: id.String(),
		KeyPair:  pair,
		ShortID:  shortID,
	}, nil
}

func (g *Generator) shortID() (string, error) {
	buf := make([]byte, ShortIDBytes)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
