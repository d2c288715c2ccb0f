// Package tmdb is a small client for The Movie Database v3 REST API plus the
// transformers that flatten its payloads into VideoFormData.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"vaultcast/internal/config"
)

var (
	// ErrUnauthorized means TMDb rejected the bearer token.
	ErrUnauthorized = errors.New("tmdb: unauthorized")
	// ErrNotFound means TMDb has no such resource.
	ErrNotFound = errors.New("tmdb: not found")
	// ErrUnavailable means the circuit breaker is open after repeated upstream failures.
	ErrUnavailable = errors.New("tmdb: temporarily unavailable")
	// ErrNotConfigured means no token was provided.
	ErrNotConfigured = errors.New("tmdb: token not configured")
)

// APIError is any other non-2xx TMDb response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb: status %d: %s", e.StatusCode, e.Message)
}

// API is the subset of TMDb VaultCast uses.
type API interface {
	SearchMovie(ctx context.Context, query string, year int) ([]MovieResult, error)
	SearchTV(ctx context.Context, query string) ([]TVResult, error)
	MovieDetails(ctx context.Context, id int) (*MovieDetails, error)
	TVDetails(ctx context.Context, id int) (*TVDetails, error)
	EpisodeDetails(ctx context.Context, tvID, season, episode int) (*EpisodeDetails, error)
}

// Client implements API over HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

var _ API = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a TMDb client from configuration.
func New(cfg config.TMDbConfig, opts ...Option) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   15 * time.Second,
		},
		limiter: rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "tmdb",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// Client-side outcomes do not say anything about TMDb's health.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) || errors.Is(err, context.Canceled)
			},
		}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type errorBody struct {
	StatusMessage string `json:"status_message"`
}

func (c *Client) fetch(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("tmdb: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tmdb: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		if eb.StatusMessage == "" {
			eb.StatusMessage = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: eb.StatusMessage}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.token == "" {
		return ErrNotConfigured
	}
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.fetch(ctx, path, q)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return ErrUnavailable
		}
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("tmdb: decode %s: %w", path, err)
	}
	return nil
}

// SearchMovie searches movies by title, optionally narrowed to a release year.
func (c *Client) SearchMovie(ctx context.Context, query string, year int) ([]MovieResult, error) {
	q := url.Values{"query": {query}, "include_adult": {"false"}}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	var res searchResponse[MovieResult]
	if err := c.get(ctx, "/search/movie", q, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

// SearchTV searches TV shows by name.
func (c *Client) SearchTV(ctx context.Context, query string) ([]TVResult, error) {
	var res searchResponse[TVResult]
	if err := c.get(ctx, "/search/tv", url.Values{"query": {query}}, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

// MovieDetails fetches movie details with credits, keywords and external ids.
func (c *Client) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	var d MovieDetails
	q := url.Values{"append_to_response": {"credits,keywords,external_ids"}}
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), q, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// TVDetails fetches show details with credits, keywords and external ids.
func (c *Client) TVDetails(ctx context.Context, id int) (*TVDetails, error) {
	var d TVDetails
	q := url.Values{"append_to_response": {"credits,keywords,external_ids"}}
	if err := c.get(ctx, "/tv/"+strconv.Itoa(id), q, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// EpisodeDetails fetches one episode with credits and external ids.
func (c *Client) EpisodeDetails(ctx context.Context, tvID, season, episode int) (*EpisodeDetails, error) {
	var d EpisodeDetails
	path := fmt.Sprintf("/tv/%d/season/%d/episode/%d", tvID, season, episode)
	q := url.Values{"append_to_response": {"credits,external_ids"}}
	if err := c.get(ctx, path, q, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
