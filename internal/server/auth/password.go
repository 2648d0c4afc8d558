package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords with bcrypt. Each Hash call
// embeds a fresh salt, so the output is non-deterministic while Verify
// stays a pure function of (password, record).
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. Costs
// outside the bcrypt range fall back to the library default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a password record from the plaintext.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("password hasher: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored record. It returns
// false, never an error, for malformed records; bcrypt's comparison is
// constant-time over the derived key.
func (h *PasswordHasher) Verify(password, record string) bool {
	return bcrypt.CompareHashAndPassword([]byte(record), []byte(password)) == nil
}
