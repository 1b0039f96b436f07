package notify

import (
	"context"

	"github.com/roamsim/storefront/ports"
)

// Noop discards every event. Used when no push URL is configured.
type Noop struct{}

// NewNoop creates a no-op notifier.
func NewNoop() *Noop {
	return &Noop{}
}

// Notify does nothing.
func (n *Noop) Notify(ctx context.Context, event string, payload map[string]any) error {
	return nil
}

// New returns a Pusher when a URL is configured, else a Noop.
func New(config Config) ports.Notifier {
	if config.URL == "" {
		return NewNoop()
	}
	return NewPusher(config)
}

// Ensure interface compliance.
var _ ports.Notifier = (*Noop)(nil)
