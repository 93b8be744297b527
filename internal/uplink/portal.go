package uplink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"roadsense/internal/queue"
	"roadsense/internal/trip"
)

// PortalClient reports pothole events to the municipal portal. The event id
// doubles as the idempotency key, so retrying a delivered report is harmless.
type PortalClient struct {
	BaseURL string
	Client  *http.Client
}

// portalReport is the wire shape the portal accepts.
type portalReport struct {
	ID          string  `json:"id"`
	TimestampMs int64   `json:"timestampMs"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	SpeedMps    float64 `json:"speedMps"`
	Severity    string  `json:"severity"`
	Source      string  `json:"source"`
}

// Deliver implements Deliverer. Any non-2xx status is a failure and will be
// retried by the scheduler.
func (c *PortalClient) Deliver(ctx context.Context, e queue.Entry[trip.PotholeEvent]) error {
	ev := e.Payload
	body, err := json.Marshal(portalReport{
		ID:          ev.ID,
		TimestampMs: ev.TimestampMs,
		Lat:         ev.Lat,
		Lng:         ev.Lng,
		SpeedMps:    ev.SpeedMps,
		Severity:    string(ev.Severity),
		Source:      ev.Source,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/potholes", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", ev.ID)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("portal returned %s", resp.Status)
	}
	return nil
}
