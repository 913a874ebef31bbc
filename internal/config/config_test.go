package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.APIPort)
	assert.Equal(t, "site1", cfg.SiteID)
	assert.Equal(t, 6, cfg.SyncIntervalHours)
	assert.Equal(t, 300, cfg.CacheTTLSeconds)
	assert.True(t, cfg.SyncEnabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("SYNC_ENABLED", "false")
	t.Setenv("SYNC_INTERVAL_HOURS", "12")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.APIPort)
	assert.False(t, cfg.SyncEnabled)
	assert.Equal(t, 12, cfg.SyncIntervalHours)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
}

func TestWooCommerceConfigured(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.WooCommerceConfigured())

	cfg.WooCommerceConsumerKey = "ck"
	assert.False(t, cfg.WooCommerceConfigured())

	cfg.WooCommerceConsumerSecret = "cs"
	assert.True(t, cfg.WooCommerceConfigured())
}

func TestAssetHostConfigured(t *testing.T) {
	cfg := &Config{AssetHostName: "host", AssetHostKey: "key"}
	assert.False(t, cfg.AssetHostConfigured())

	cfg.AssetHostSecret = "secret"
	assert.True(t, cfg.AssetHostConfigured())
}

func TestGetEnvAsIntFallback(t *testing.T) {
	t.Setenv("SYNC_INTERVAL_HOURS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.SyncIntervalHours)
}
