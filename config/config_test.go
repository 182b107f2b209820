package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("ADMIN_ID", "")
	t.Setenv("CHECK_INTERVAL_SECONDS", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("FETCH_MODE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.CheckInterval)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, FetchModeBrowser, cfg.FetchMode)
	assert.Zero(t, cfg.AdminID)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("ADMIN_ID", "12345")
	t.Setenv("CHECK_INTERVAL_SECONDS", "120")
	t.Setenv("DATA_DIR", "/tmp/stock")
	t.Setenv("FETCH_MODE", "http")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(12345), cfg.AdminID)
	assert.Equal(t, 2*time.Minute, cfg.CheckInterval)
	assert.Equal(t, "/tmp/stock", cfg.DataDir)
	assert.Equal(t, FetchModeHTTP, cfg.FetchMode)
}

func TestLoadRejectsBadFetchMode(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("FETCH_MODE", "carrier-pigeon")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadAdminID(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("ADMIN_ID", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}
