package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaultcast/internal/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(config.TMDbConfig{Token: "tok", BaseURL: srv.URL}, WithHTTPClient(srv.Client()))
}

func TestSearchMovie(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "Heat", r.URL.Query().Get("query"))
		assert.Equal(t, "1995", r.URL.Query().Get("year"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":949,"title":"Heat","release_date":"1995-12-15","vote_average":7.94}],"total_results":1}`))
	})

	res, err := c.SearchMovie(context.Background(), "Heat", 1995)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, 949, res[0].ID)

	s := MovieResultToSearch(res[0])
	assert.Equal(t, "1995", s.Year)
	assert.Equal(t, 7.9, s.Score)
}

func TestEpisodeDetailsPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/1396/season/1/episode/2", r.URL.Path)
		assert.Equal(t, "credits,external_ids", r.URL.Query().Get("append_to_response"))
		_, _ = w.Write([]byte(`{"id":62086,"name":"Cat's in the Bag...","season_number":1,"episode_number":2}`))
	})

	ep, err := c.EpisodeDetails(context.Background(), 1396, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Cat's in the Bag...", ep.Name)
}

func TestStatusTranslation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"unauthorized", http.StatusUnauthorized, `{"status_message":"Invalid API key"}`, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrUnauthorized)
		}},
		{"not found", http.StatusNotFound, `{}`, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrNotFound)
		}},
		{"upstream error", http.StatusServiceUnavailable, `{"status_message":"maintenance"}`, func(t *testing.T, err error) {
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
			assert.Equal(t, "maintenance", apiErr.Message)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.MovieDetails(context.Background(), 1)
			tt.check(t, err)
		})
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 5; i++ {
		_, err := c.TVDetails(context.Background(), 1)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
	}

	_, err := c.TVDetails(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 5, calls)
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 8; i++ {
		_, err := c.MovieDetails(context.Background(), 1)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestMissingToken(t *testing.T) {
	c := New(config.TMDbConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := c.SearchTV(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
