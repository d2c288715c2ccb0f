package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsApp(t *testing.T) (*fiber.App, *PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(m.Handler())
	return app, m, reg
}

func TestPrometheusMiddleware_Labels(t *testing.T) {
	app, m, _ := newMetricsApp(t)

	app.Get("/api/movies", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Delete("/api/movies/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/api/tmdb/search", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "query is required")
	})
	app.Post("/api/bulk-update", func(c *fiber.Ctx) error { return errors.New("boom") })

	cases := []struct {
		method, target string
		labels         []string
	}{
		{"GET", "/api/movies", []string{"GET", "/api/movies", "200"}},
		{"DELETE", "/api/movies/3f1c", []string{"DELETE", "/api/movies/:id", "204"}},
		{"GET", "/api/tmdb/search", []string{"GET", "/api/tmdb/search", "400"}},
		{"POST", "/api/bulk-update", []string{"POST", "/api/bulk-update", "500"}},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			_, err := app.Test(httptest.NewRequest(tc.method, tc.target, nil))
			require.NoError(t, err)
			assert.Equal(t, float64(1), testutil.ToFloat64(m.requestCount.WithLabelValues(tc.labels...)))
		})
	}

	// One histogram series per method and route pattern.
	assert.Equal(t, len(cases), testutil.CollectAndCount(m.requestDuration))
}

func TestPrometheusMiddleware_UnmatchedRoutesShareOneSeries(t *testing.T) {
	app, m, _ := newMetricsApp(t)
	app.Get("/api/movies", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, target := range []string{"/wp-login.php", "/.env", "/api/movies/a/b/c"} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestCount))
}

func TestPrometheusMiddleware_SkipsMetricsEndpoint(t *testing.T) {
	app, _, reg := newMetricsApp(t)
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	_, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		assert.Empty(t, mf.GetMetric(), mf.GetName())
	}
}

func TestNewPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}
