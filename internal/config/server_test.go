package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfig_Defaults(t *testing.T) {
	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL, "Sessions live for a week by default")
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadServerConfig_FromEnv(t *testing.T) {
	t.Setenv("FUNDSIM_ADDR", "127.0.0.1:9090")
	t.Setenv("FUNDSIM_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("FUNDSIM_SESSION_TTL", "48h")

	cfg, err := LoadServerConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Addr)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
}

func TestLoadServerConfig_Errors(t *testing.T) {
	t.Run("unparsable duration", func(t *testing.T) {
		t.Setenv("FUNDSIM_SESSION_TTL", "a week")
		_, err := LoadServerConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env:")
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		t.Setenv("FUNDSIM_SESSION_TTL", "0s")
		_, err := LoadServerConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})
}
