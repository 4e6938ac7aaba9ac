package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "test")
	t.Setenv("PORT", "")
	t.Setenv("DEBUG", "")
	t.Setenv("ENABLE_ANALYTICS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/api/gql", cfg.Server.GraphQLPath)
	assert.Equal(t, DefaultUpstreamBaseURL, cfg.Upstream.BaseURL)
	assert.Equal(t, DefaultIndex, cfg.Database.Elasticsearch.Index)
	assert.Equal(t, "http://localhost:9200", cfg.Database.Elasticsearch.GetURL())
	assert.True(t, cfg.Features.ServerSideLogging)
	assert.True(t, cfg.Session.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_LegacyEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
upstream:
  base_url: http://upstream.test/staging/
database:
  elasticsearch:
    index: from-file
`)
	t.Setenv("AUTH_TOKEN", "bearer-123")
	t.Setenv("ELASTICSEARCH_API_KEY", "es-key")
	t.Setenv("NEXT_PUBLIC_GOOGLE_MAPS_API_KEY", "maps-key")
	t.Setenv("PORT", "9090")
	t.Setenv("ENABLE_ANALYTICS", "off")
	t.Setenv("DEBUG", "yes")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://upstream.test/staging", cfg.Upstream.BaseURL)
	assert.Equal(t, "bearer-123", cfg.Upstream.AuthToken)
	assert.Equal(t, "es-key", cfg.Database.Elasticsearch.APIKey)
	assert.Equal(t, "from-file", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, "maps-key", cfg.Maps.APIKey)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Features.ServerSideLogging)
	assert.True(t, cfg.Features.Debug)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("TEST_UPSTREAM_HOST", "http://expanded.test")
	path := writeConfigFile(t, `
upstream:
  base_url: ${TEST_UPSTREAM_HOST}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://expanded.test", cfg.Upstream.BaseURL)
}

func TestLoadFromFile_InvalidPort(t *testing.T) {
	path := writeConfigFile(t, "app:\n  name: test\n")
	t.Setenv("PORT", "eighty")

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestLoadFromFile_InvalidUpstreamURL(t *testing.T) {
	path := writeConfigFile(t, "upstream:\n  base_url: not a url\n")
	t.Setenv("PORT", "")

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadFromFile_SessionRequiresRedis(t *testing.T) {
	path := writeConfigFile(t, `
session:
  enabled: true
database:
  redis:
    address: ""
`)
	t.Setenv("PORT", "")
	t.Setenv("REDIS_ADDRESS", "")

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"off", true, false},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseBool(tt.in, tt.def))
		})
	}
}
