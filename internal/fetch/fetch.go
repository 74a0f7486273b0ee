// Package fetch provides the HTTP-backed implementation of the
// interfaces.Fetcher contract used for asset and font downloads.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-patternatlas/pkg/interfaces"
)

// DefaultTimeout bounds every download so a single unreachable resource
// cannot hang a render pass.
const DefaultTimeout = 3 * time.Second

// HTTP fetches resources over HTTP(S), following redirects and accepting any
// content type. Non-2xx responses are reported as errors.
type HTTP struct {
	client *http.Client
}

var _ interfaces.Fetcher = (*HTTP)(nil)

// NewHTTP builds a fetcher with the given per-request timeout. A zero or
// negative timeout falls back to DefaultTimeout.
func NewHTTP(timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch satisfies interfaces.Fetcher.
func (h *HTTP) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("fetch: build request: %w", err)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("fetch: %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("fetch: read body: %w", err)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return body, finalURL, nil
}
