// Package notify delivers order events to an external push endpoint.
// Deliveries are fire-and-forget: the checkout flow never blocks on, or
// fails because of, a notification.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/roamsim/storefront/ports"
)

// Config holds push notification configuration.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// Pusher POSTs JSON events to a configured webhook URL.
type Pusher struct {
	config Config
	client *http.Client
}

// NewPusher creates a push notifier. A zero Timeout defaults to 10s.
func NewPusher(config Config) *Pusher {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Pusher{
		config: config,
		client: &http.Client{Timeout: timeout},
	}
}

// Notify delivers one event. The payload is wrapped in an envelope with
// the event name and delivery timestamp.
func (p *Pusher) Notify(ctx context.Context, event string, payload map[string]any) error {
	body, err := json.Marshal(map[string]any{
		"event":   event,
		"sent_at": time.Now().UTC().Format(time.RFC3339),
		"data":    payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.Token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("push %s: %w", event, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push %s: endpoint returned %d", event, resp.StatusCode)
	}
	return nil
}

// Ensure interface compliance.
var _ ports.Notifier = (*Pusher)(nil)
