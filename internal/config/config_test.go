package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidwatch/kidwatch/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, "device-telemetry", cfg.PubSub.SubscriptionName)
	assert.False(t, cfg.Observability.Enabled)
	assert.NotEmpty(t, cfg.Client.BaseURL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("KIDWATCH_LOGLEVEL", "debug")
	t.Setenv("KIDWATCH_ENVIRONMENT", "production")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "production", cfg.Environment)
}
