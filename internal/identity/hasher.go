package identity

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const defaultCost = 12

// Hasher derives non-reversible tokens from raw caller identities (IP
// addresses) and verifies raw identities against previously issued tokens.
// Tokens are salted, so the same identity hashes differently every time;
// equality checks must always go through Matches.
type Hasher interface {
	Hash(raw string) (string, error)
	Matches(raw, token string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt-backed Hasher. A cost outside bcrypt's
// valid range falls back to the default of 12.
func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash identity: %w", err)
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Matches(raw, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(token), []byte(raw)) == nil
}
