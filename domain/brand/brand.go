// Package brand provides multi-brand theming value types and the
// domain-to-brand matching rule.
package brand

import (
	"net"
	"strings"
	"time"
)

// Brand is one storefront identity served from a set of domains.
type Brand struct {
	ID           string
	Name         string
	Domain       string // primary domain, exact match after normalization
	LogoURL      string
	PrimaryColor string
	AccentColor  string
	SupportEmail string
	IsDefault    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeHost strips the port and a leading "www." and lower-cases
// the host, so cached lookups key consistently.
func NormalizeHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSpace(host))
	return strings.TrimPrefix(host, "www.")
}

// Match finds the brand serving a request host: exact domain match
// first, else the default brand if one exists.
func Match(brands []Brand, host string) (Brand, bool) {
	host = NormalizeHost(host)
	for _, b := range brands {
		if NormalizeHost(b.Domain) == host {
			return b, true
		}
	}
	for _, b := range brands {
		if b.IsDefault {
			return b, true
		}
	}
	return Brand{}, false
}
