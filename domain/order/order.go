// Package order provides order and eSIM provisioning value types.
package order

import (
	"time"

	"github.com/roamsim/storefront/domain/pricing"
)

// Status tracks an order through payment and provisioning.
type Status string

const (
	StatusPending     Status = "pending"
	StatusPaid        Status = "paid"
	StatusProvisioned Status = "provisioned"
	StatusFailed      Status = "failed"
	StatusCancelled   Status = "cancelled"
)

// Order is one purchase of a package. Amount is the already-discounted
// price in the order's currency; the gateways never see raw prices.
type Order struct {
	ID          string
	InvID       int64 // numeric invoice id for Robokassa
	PackageID   string
	PackageSlug string
	Email       string
	Currency    pricing.Currency
	Amount      float64
	Provider    string // "robokassa", "stripe"
	Status      Status
	BrandID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Profile is the eSIM provisioning record created once an order is
// paid.
type Profile struct {
	ID             string
	OrderID        string
	ICCID          string
	SMDPAddress    string
	ActivationCode string
	CreatedAt      time.Time
}

// CanTransition reports whether an order may move between two states.
// Payment webhooks can arrive more than once; a repeat of the current
// state is allowed so replays stay idempotent.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusPaid || to == StatusFailed || to == StatusCancelled
	case StatusPaid:
		return to == StatusProvisioned || to == StatusFailed
	}
	return false
}
