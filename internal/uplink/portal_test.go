package uplink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"roadsense/internal/queue"
	"roadsense/internal/trip"
)

func portalEntry() queue.Entry[trip.PotholeEvent] {
	return queue.Entry[trip.PotholeEvent]{
		ID: "entry-1",
		Payload: trip.PotholeEvent{
			ID:          "event-abc",
			TimestampMs: 1700000000000,
			Lat:         47.07,
			Lng:         15.44,
			Severity:    trip.SeverityModerate,
			PeakG:       0.71,
			SpeedMps:    9.5,
			Source:      "accelerometer",
		},
	}
}

func TestPortalDeliver(t *testing.T) {
	var gotKey string
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		gotPath = r.URL.Path
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := &PortalClient{BaseURL: srv.URL}
	if err := c.Deliver(context.Background(), portalEntry()); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if gotPath != "/potholes" {
		t.Errorf("expected POST to /potholes, got %s", gotPath)
	}
	if gotKey != "event-abc" {
		t.Errorf("idempotency key should be the event id, got %q", gotKey)
	}
	if gotBody["severity"] != "moderate" || gotBody["id"] != "event-abc" {
		t.Errorf("unexpected body: %v", gotBody)
	}
}

// A retried delivery must present the same idempotency key so the portal can
// deduplicate.
func TestPortalRetrySameKey(t *testing.T) {
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
	}))
	defer srv.Close()

	c := &PortalClient{BaseURL: srv.URL}
	e := portalEntry()
	for i := 0; i < 3; i++ {
		if err := c.Deliver(context.Background(), e); err != nil {
			t.Fatalf("Deliver %d: %v", i, err)
		}
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(keys))
	}
	for _, k := range keys {
		if k != keys[0] {
			t.Errorf("idempotency key changed across retries: %v", keys)
		}
	}
}

func TestPortalDeliverServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := &PortalClient{BaseURL: srv.URL}
	if err := c.Deliver(context.Background(), portalEntry()); err == nil {
		t.Errorf("expected error on 500")
	}
}
