// Package hasher implements admin password hashing.
package hasher

import (
	"github.com/roamsim/storefront/ports"
	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hashes passwords with bcrypt. The admin login path compares
// against the hash stored in admin.password_hash.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a bcrypt hasher. Out-of-range costs fall back to
// bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash generates a bcrypt hash from plaintext.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
}

// Compare reports whether plaintext matches hash.
func (h *Bcrypt) Compare(hash []byte, plaintext string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}

// Ensure interface compliance.
var _ ports.Hasher = (*Bcrypt)(nil)
