package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 8080
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "wheelsweb"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "2112"
frontend_dist_path = "./dist"

[production]
host = ""
port = 8080
log_level = "info"
logs_path = "/var/log/wheelsweb/service.log"
sentry_enabled = true
postgres_host = "wheelsweb-db"
postgres_port = "5432"
postgres_db_name = "wheelsweb"
prometheus_metrics_host = ""
prometheus_metrics_port = "2112"
frontend_dist_path = "/var/www/wheelsweb"
session_ttl_minutes = 480
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := Load("development", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.True(t, cfg.LogToStdout)
	assert.Equal(t, "wheelsweb", cfg.PostgresDBName)
	// no TTL set, default applies
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL())
}

func TestLoad_Production(t *testing.T) {
	cfg, err := Load("prod", writeTestConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, "wheelsweb-db", cfg.PostgresHost)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL())
}

func TestLoad_UnknownEnv(t *testing.T) {
	_, err := Load("staging", writeTestConfig(t))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("development", filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
