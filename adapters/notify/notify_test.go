package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPusherNotify(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		json.Unmarshal(b, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewPusher(Config{URL: srv.URL, Token: "secret"})
	err := p.Notify(context.Background(), "order.paid", map[string]any{"order_id": "ord1"})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["event"] != "order.paid" {
		t.Errorf("event = %v", gotBody["event"])
	}
	data, ok := gotBody["data"].(map[string]any)
	if !ok || data["order_id"] != "ord1" {
		t.Errorf("data = %v", gotBody["data"])
	}
}

func TestPusherNotify_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewPusher(Config{URL: srv.URL})
	if err := p.Notify(context.Background(), "order.paid", nil); err == nil {
		t.Fatal("want error on 502")
	}
}

func TestNew(t *testing.T) {
	if _, ok := New(Config{}).(*Noop); !ok {
		t.Error("empty URL should yield Noop")
	}
	if _, ok := New(Config{URL: "https://push.example"}).(*Pusher); !ok {
		t.Error("configured URL should yield Pusher")
	}
}
