// Package idgen implements the ID generation port.
package idgen

import (
	"github.com/google/uuid"

	"github.com/roamsim/storefront/ports"
)

// UUID issues random v4 UUIDs. Order and brand IDs use this.
type UUID struct{}

// New returns a new UUID string.
func (UUID) New() string {
	return uuid.New().String()
}

// Ensure interface compliance.
var _ ports.IDGenerator = UUID{}
