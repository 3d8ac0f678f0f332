package remote

import (
	"context"
	"net/http"
	"time"
)

// Reachability reports whether the network is usable. The engine gates upload
// attempts on it but never implements detection itself.
type Reachability interface {
	Online(ctx context.Context) bool
}

// AlwaysOnline is the default for deployments without a probe endpoint.
type AlwaysOnline struct{}

func (AlwaysOnline) Online(ctx context.Context) bool { return true }

// HTTPProbe considers the network online when a HEAD request to URL succeeds.
type HTTPProbe struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

func (p *HTTPProbe) Online(ctx context.Context) bool {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}
