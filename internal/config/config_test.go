package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "DATA_SOURCE", "DATA_DIR", "DATA_LOAD_TIMEOUT", "RENDER_CACHE_TTL", "MQTT_TOPIC", "ADMIN_USERNAME", "JWT_SECRET", "ADMIN_PASSWORD_HASH"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, cfg.DataSource)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 15*time.Second, cfg.DataLoadTimeout)
	assert.Equal(t, 5*time.Minute, cfg.RenderCacheTTL)
	assert.Equal(t, "phcfinder/datasets", cfg.MQTTTopic)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.AdminEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATA_SOURCE", SourceHTTP)
	t.Setenv("DATA_BASE_URL", "https://example.org/data/")
	t.Setenv("DATA_LOAD_TIMEOUT", "3s")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$hash")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 3*time.Second, cfg.DataLoadTimeout)
	assert.True(t, cfg.AdminEnabled())
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown source":        {"DATA_SOURCE": "ftp"},
		"http without url":      {"DATA_SOURCE": SourceHTTP, "DATA_BASE_URL": ""},
		"spaces without bucket": {"DATA_SOURCE": SourceSpaces, "SPACES_ENDPOINT": "https://fra1.digitaloceanspaces.com", "SPACES_BUCKET": ""},
		"postgres without url":  {"DATA_SOURCE": SourcePostgres, "DATABASE_URL": ""},
		"bad timeout":           {"DATA_SOURCE": SourceLocal, "DATA_LOAD_TIMEOUT": "soon"},
		"negative ttl":          {"DATA_SOURCE": SourceLocal, "RENDER_CACHE_TTL": "-1m"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
