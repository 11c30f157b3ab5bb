package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganot/helpdesk-mcp/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HELPDESK_ZENDESK_SUBDOMAIN", "acme")
	t.Setenv("HELPDESK_ZENDESK_EMAIL", "agent@example.com")
	t.Setenv("HELPDESK_ZENDESK_TOKEN", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "info", cfg.Log.Level)
	require.Empty(t, cfg.Cursor.Path)
	require.Zero(t, cfg.KB.CacheTTL)
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("HELPDESK_ZENDESK_SUBDOMAIN", "")
	t.Setenv("HELPDESK_ZENDESK_EMAIL", "")
	t.Setenv("HELPDESK_ZENDESK_TOKEN", "")

	_, err := config.Load()
	require.ErrorContains(t, err, "subdomain is required")

	t.Setenv("HELPDESK_ZENDESK_SUBDOMAIN", "acme")
	_, err = config.Load()
	require.ErrorContains(t, err, "email is required")

	t.Setenv("HELPDESK_ZENDESK_EMAIL", "agent@example.com")
	_, err = config.Load()
	require.ErrorContains(t, err, "token is required")
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HELPDESK_SERVER_HOST", "127.0.0.1")
	t.Setenv("HELPDESK_SERVER_PORT", "9090")
	t.Setenv("HELPDESK_CURSOR_DB_PATH", "/tmp/cursors.db")
	t.Setenv("HELPDESK_KB_CACHE_TTL", "10m")
	t.Setenv("HELPDESK_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/tmp/cursors.db", cfg.Cursor.Path)
	require.Equal(t, 10*time.Minute, cfg.KB.CacheTTL)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HELPDESK_SERVER_PORT", "not-a-port")

	_, err := config.Load()
	require.ErrorContains(t, err, "HELPDESK_SERVER_PORT")
}

func TestLoad_InvalidTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HELPDESK_KB_CACHE_TTL", "10 minutes")

	_, err := config.Load()
	require.ErrorContains(t, err, "HELPDESK_KB_CACHE_TTL")
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
zendesk:
  subdomain: from-file
  email: file@example.com
  token: file-token
server:
  port: 7000
log:
  level: warn
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("HELPDESK_CONFIG_PATH", path)
	t.Setenv("HELPDESK_ZENDESK_SUBDOMAIN", "from-env")
	t.Setenv("HELPDESK_ZENDESK_EMAIL", "")
	t.Setenv("HELPDESK_ZENDESK_TOKEN", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	// Environment wins over the file; file fills the rest.
	require.Equal(t, "from-env", cfg.Zendesk.Subdomain)
	require.Equal(t, "file@example.com", cfg.Zendesk.Email)
	require.Equal(t, 7000, cfg.Server.Port)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HELPDESK_CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := config.Load()
	require.ErrorContains(t, err, "read config file")
}
