// Package clock implements the time port.
package clock

import (
	"time"

	"github.com/roamsim/storefront/ports"
)

// Real reads the system clock.
type Real struct{}

// Now returns the current time.
func (Real) Now() time.Time {
	return time.Now()
}

// Ensure interface compliance.
var _ ports.Clock = Real{}
