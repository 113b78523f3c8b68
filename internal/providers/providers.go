// Package providers contains the upstream API clients and their
// normalization into canonical cache fields: geocoding, weather forecasts,
// event listings, movie search, and local business search.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultTimeout bounds every provider fetch. The cache engine treats a
// timed-out fetch like any other upstream failure.
const defaultTimeout = 10 * time.Second

type options struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a provider client.
type Option func(*options)

// WithHTTPClient overrides the HTTP client, including its timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) { o.httpClient = h }
}

// WithBaseURL points the client at a different host, e.g. a test server.
func WithBaseURL(raw string) Option {
	return func(o *options) { o.baseURL = raw }
}

func buildOptions(baseURL string, opts ...Option) options {
	o := options{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// getJSON issues a GET and decodes the JSON response. label names the
// endpoint in errors; the full URL is kept out of them since it may carry
// an API key.
func getJSON(ctx context.Context, client *http.Client, rawURL, label string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("GET %s: %s: %s", label, resp.Status, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", label, err)
	}
	return nil
}
