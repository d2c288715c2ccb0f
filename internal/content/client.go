package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client talks to a remote content server.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ Lister = (*Client)(nil)

// NewClient returns a client for the content server at baseURL. hc may be nil.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// List calls GET /api/files/:dir.
func (c *Client) List(ctx context.Context, dir string, recursive bool) (Listing, error) {
	u := c.baseURL + "/api/files/" + url.PathEscape(strings.Trim(dir, "/"))
	if recursive {
		u += "?recursive=true"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Listing{}, fmt.Errorf("content: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Listing{}, fmt.Errorf("content: list %s: %w", dir, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Listing{}, ErrDirectoryNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Listing{}, fmt.Errorf("content: list %s: status %d: %s", dir, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out Listing
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Listing{}, fmt.Errorf("content: decode listing: %w", err)
	}
	return out, nil
}
