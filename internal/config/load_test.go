package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "bearer.txt", cfg.Farmer.TokenFile)
		assert.Equal(t, "proxy.txt", cfg.Farmer.ProxyFile)
		assert.Equal(t, 3, cfg.Farmer.MaxUploadsPerCampaign)
		assert.Equal(t, 15*time.Second, cfg.Farmer.PolitenessDelay)
		assert.Equal(t, 5*time.Second, cfg.Farmer.InterAccountDelay)
		assert.Equal(t, 240*time.Second, cfg.Farmer.CooldownMin)
		assert.Equal(t, 450*time.Second, cfg.Farmer.CooldownMax)
		assert.Equal(t, 24*time.Hour, cfg.Farmer.CycleInterval)

		assert.Equal(t, defaultBaseURL, cfg.HTTP.BaseURL)
		assert.Equal(t, 60*time.Second, cfg.HTTP.RequestTimeout)
		assert.Equal(t, 5, cfg.HTTP.MaxRetries)
		assert.Equal(t, 5*time.Second, cfg.HTTP.InitialBackoff)
		assert.Equal(t, 3, cfg.HTTP.GatewayRetries)
		assert.Equal(t, 5*time.Second, cfg.HTTP.GatewayBackoff)

		assert.Equal(t, 30*time.Second, cfg.TTS.Timeout)
		assert.False(t, cfg.Status.Enabled)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("config file overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "farmer.yaml")
		content := `
farmer:
  token_file: /etc/farmer/tokens.txt
  max_uploads_per_campaign: 5
http:
  gateway_retries: 7
log:
  level: debug
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/etc/farmer/tokens.txt", cfg.Farmer.TokenFile)
		assert.Equal(t, 5, cfg.Farmer.MaxUploadsPerCampaign)
		assert.Equal(t, 7, cfg.HTTP.GatewayRetries)
		assert.Equal(t, "debug", cfg.Log.Level)
		// Untouched values keep their defaults.
		assert.Equal(t, "proxy.txt", cfg.Farmer.ProxyFile)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("FARMER_LOG_LEVEL", "warn")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Log.Level)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("validation rejects bad values", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "farmer.yaml")
		content := `
log:
  level: shouting
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation")
	})

	t.Run("cooldown max below min is rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "farmer.yaml")
		content := `
farmer:
  cooldown_min: 300s
  cooldown_max: 100s
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})
}
