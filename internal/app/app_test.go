package app

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaultcast/internal/config"
	"vaultcast/internal/model"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		Store:   config.StoreConfig{Driver: "memory"},
		Files:   config.FilesConfig{Storage: "local", Root: t.TempDir()},
		Content: config.ContentConfig{ServerURL: "http://content.invalid", MoviesDir: "movies", TVDir: "tv"},
		TMDb:    config.TMDbConfig{BaseURL: "http://tmdb.invalid"},
		Integrate: config.IntegrateConfig{
			FeaturesDir: "/srv/features",
			ProjectDir:  "/srv/template",
		},
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()

	a, err := New(ctx, testConfig(t), reg)
	require.NoError(t, err)
	defer a.Close(ctx)

	assert.Equal(t, "memory", a.Store.Driver)
	assert.NoError(t, a.Store.PingContext(ctx))

	deps := a.Deps()
	assert.NotNil(t, deps.Catalog)
	assert.NotNil(t, deps.Bulk)
	assert.NotNil(t, deps.Messenger)
	assert.Equal(t, "/srv/template", deps.Integrate.ProjectDir)

	// Registering twice on the same registry fails.
	_, err = New(ctx, testConfig(t), reg)
	assert.Error(t, err)
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Driver = "sqlite"

	_, err := New(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, `unsupported store driver "sqlite"`)
}

func TestContentDirs(t *testing.T) {
	dirs := ContentDirs(config.ContentConfig{MoviesDir: "films", TVDir: "shows"})
	assert.Equal(t, map[string]string{model.KindMovies: "films", model.KindTV: "shows"}, dirs)
}
