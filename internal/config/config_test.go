package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("REGIONHUB_CONFIG", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/api", c.API.BaseURL)
	require.Equal(t, 15*time.Second, c.API.Timeout)
	require.Zero(t, c.API.Retries)
	require.Equal(t, filepath.Join(home, ".local", "share", "regionhub", "regionhub.db"), c.Storage.Path)
	require.Equal(t, "/dashboard", c.UI.StartPath)
	require.Equal(t, "regionhub", c.Telemetry.ServiceName)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("REGIONHUB_API_BASE_URL", "https://portal.example.org/api")
	t.Setenv("REGIONHUB_API_RETRIES", "2")
	t.Setenv("REGIONHUB_UI_START_PATH", "/marketplace")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://portal.example.org/api", c.API.BaseURL)
	require.Equal(t, 2, c.API.Retries)
	require.Equal(t, "/marketplace", c.UI.StartPath)
}

func TestSaveThenLoad(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "cfg", "config.toml")
	t.Setenv("REGIONHUB_CONFIG", path)

	c, err := Load()
	require.NoError(t, err)
	c.API.Timeout = 3 * time.Second
	c.UI.Currency = "EUR"
	require.NoError(t, Save(c))

	_, err = os.Stat(path)
	require.NoError(t, err)

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, got.API.Timeout)
	require.Equal(t, "EUR", got.UI.Currency)
}

func TestValidate(t *testing.T) {
	isolate(t)
	c, err := Load()
	require.NoError(t, err)

	bad := c
	bad.API.BaseURL = "portal"
	require.Error(t, bad.Validate())

	bad = c
	bad.API.Retries = -1
	require.Error(t, bad.Validate())

	bad = c
	bad.UI.StartPath = "dashboard"
	require.Error(t, bad.Validate())
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	isolate(t)
	t.Setenv("REGIONHUB_API_BASE_URL", "not a url")
	_, err := Load()
	require.Error(t, err)
}
