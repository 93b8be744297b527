package uplink

import (
	"context"
	"net/http"
	"time"
)

// Prober answers whether the backend looks reachable right now. A negative
// answer makes the scheduler decline an attempt without advancing backoff.
type Prober interface {
	Reachable(ctx context.Context) bool
}

// HTTPProbe issues a HEAD request with a short timeout. The timeout bounds a
// hung probe so it can never block an attempt indefinitely. Foreground, when
// set, gates probing on the app being in the foreground.
type HTTPProbe struct {
	URL        string
	Timeout    time.Duration
	Client     *http.Client
	Foreground func() bool
}

// Reachable implements Prober.
func (p *HTTPProbe) Reachable(ctx context.Context) bool {
	if p.Foreground != nil && !p.Foreground() {
		return false
	}
	if p.URL == "" {
		return true
	}
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
	if err != nil {
		return false
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
