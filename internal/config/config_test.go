package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/nsrdb-epw-service/internal/domain"
)

const testMapboxToken = "pk.test-token"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Empty(t, cfg.NSRDBAggregatedURL)
	assert.Empty(t, cfg.NSRDBTypicalURL)
	assert.Equal(t, 20*time.Second, cfg.NSRDBTimeout)
	assert.Equal(t, domain.DefaultAttributes, cfg.Attributes)
	assert.False(t, cfg.MailingList)
	assert.Equal(t, "/run/secrets", cfg.SecretsDir)
	assert.Equal(t, "api_key", cfg.APIKeyFile)
	assert.Equal(t, ".env", cfg.DotenvPath)
	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("OUTPUT_DIR", "/data/epw")
	t.Setenv("NSRDB_AGGREGATED_URL", "http://nsrdb.local/agg.csv")
	t.Setenv("NSRDB_TYPICAL_URL", "http://nsrdb.local/tmy.csv")
	t.Setenv("NSRDB_TIMEOUT", "45s")
	t.Setenv("NSRDB_ATTRIBUTES", " ghi, dni ,,dhi ")
	t.Setenv("NSRDB_FULL_NAME", "Jane Doe")
	t.Setenv("NSRDB_EMAIL", "jane@example.com")
	t.Setenv("NSRDB_AFFILIATION", "NREL")
	t.Setenv("NSRDB_REASON", "research")
	t.Setenv("NSRDB_MAILING_LIST", "true")
	t.Setenv("SECRETS_DIR", "/secrets")
	t.Setenv("API_KEY_FILE", "/etc/nsrdb/key")
	t.Setenv("DOTENV_PATH", "/etc/nsrdb/.env")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/data/epw", cfg.OutputDir)
	assert.Equal(t, "http://nsrdb.local/agg.csv", cfg.NSRDBAggregatedURL)
	assert.Equal(t, "http://nsrdb.local/tmy.csv", cfg.NSRDBTypicalURL)
	assert.Equal(t, 45*time.Second, cfg.NSRDBTimeout)
	assert.Equal(t, []string{"ghi", "dni", "dhi"}, cfg.Attributes)
	assert.Equal(t, "Jane Doe", cfg.FullName)
	assert.Equal(t, "jane@example.com", cfg.Email)
	assert.Equal(t, "NREL", cfg.Affiliation)
	assert.Equal(t, "research", cfg.Reason)
	assert.True(t, cfg.MailingList)
	assert.Equal(t, "/secrets", cfg.SecretsDir)
	assert.Equal(t, "/etc/nsrdb/key", cfg.APIKeyFile)
	assert.Equal(t, "/etc/nsrdb/.env", cfg.DotenvPath)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidNSRDBTimeout(t *testing.T) {
	for _, v := range []string{"bad", "0s", "-5s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("NSRDB_TIMEOUT", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "NSRDB_TIMEOUT")
		})
	}
}

func TestLoad_InvalidMailingList(t *testing.T) {
	t.Setenv("NSRDB_MAILING_LIST", "maybe")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NSRDB_MAILING_LIST")
}

func TestLoad_EmptyAttributes(t *testing.T) {
	t.Setenv("NSRDB_ATTRIBUTES", " , ,")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NSRDB_ATTRIBUTES")
}

func TestLoad_InvalidMapboxTimeout(t *testing.T) {
	t.Setenv("MAPBOX_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TIMEOUT")
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxTokenImpliesEnabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MapboxEnabled)
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}
