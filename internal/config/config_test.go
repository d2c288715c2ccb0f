package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("TMDB_RATE_LIMIT", "2.5")
	t.Setenv("BULK_PAUSE", "500ms")
	t.Setenv("FILES_STORAGE", "minio")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Store.Postgres.Host)
	assert.Equal(t, 20, cfg.Store.Postgres.MaxOpenConns)
	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.True(t, cfg.Content.MinIO.UseSSL)
	assert.Equal(t, 2.5, cfg.TMDb.RateLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.Bulk.Pause)
	assert.Equal(t, 10, cfg.Bulk.BatchSize)
	assert.Equal(t, "minio", cfg.Files.Storage)
	assert.Equal(t, "./data/files", cfg.Files.Root)
	assert.Equal(t, "./template", cfg.Integrate.ProjectDir)
}

func TestGmailEnabled(t *testing.T) {
	g := GmailConfig{ClientID: "id", ClientSecret: "secret", RefreshToken: "rt"}
	assert.False(t, g.Enabled())

	g.Sender = "me@example.com"
	assert.True(t, g.Enabled())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_DURATION_VAR"

	t.Setenv(key, "3s")
	assert.Equal(t, 3*time.Second, getEnvDuration(key, time.Second))

	t.Setenv(key, "soon")
	assert.Equal(t, time.Second, getEnvDuration(key, time.Second))
}
