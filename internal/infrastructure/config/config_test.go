package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no config.toml in sight

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "orderfeed", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, "2025-04", cfg.Shopify.APIVersion)
	assert.Equal(t, 250, cfg.Shopify.PageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Shopify.RequestDelay)
	assert.Equal(t, "club21", cfg.Storage.Bucket)
	assert.Equal(t, "data", cfg.Feed.WorkDir)
	assert.Equal(t, 48*time.Hour, cfg.Feed.Lookback)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FEED_SHOPIFY_STORE_NAME", "club21-sg")
	t.Setenv("FEED_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "club21-sg", cfg.Shopify.StoreName)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate_ProductionRequiresCredentials(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shopify.api_key")
}
