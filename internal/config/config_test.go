package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 75, cfg.Rover.DefaultSpeed)
	assert.Equal(t, time.Second, cfg.Rover.MoveDuration)
	assert.Equal(t, 0.5, cfg.Rover.BaseSpeedMS)

	assert.True(t, cfg.Delay.Enabled)
	assert.Equal(t, "average", cfg.Delay.Mode)
	assert.Equal(t, 2.0, cfg.Delay.Min)
	assert.Equal(t, 10.0, cfg.Delay.Max)
	assert.Equal(t, 6.0, cfg.Delay.Average)

	assert.Equal(t, "moon", cfg.Ground.Environment)
	assert.Equal(t, "dusty_plain", cfg.Ground.InitialTerrain)

	assert.InDelta(t, 52.0719, cfg.GNSS.Latitude, 0.0001)
	assert.Equal(t, 5*time.Second, cfg.GNSS.AcquisitionTime)

	assert.Equal(t, 500*time.Millisecond, cfg.Autonomous.TickInterval)
	assert.Equal(t, 30, cfg.Autonomous.TurnThreshold)
	assert.Equal(t, 10, cfg.Autonomous.MaxLostTicks)

	assert.Equal(t, "lunar_rover", cfg.Redis.Prefix)
	assert.Equal(t, 1000, cfg.Log.MemoryEntries)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_HOST", "redis.local")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("ROVER_ENVIRONMENT", "mars")
	t.Setenv("ROVER_DELAY_MODE", "random")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis.local", cfg.Redis.Host)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "mars", cfg.Ground.Environment)
	assert.Equal(t, "random", cfg.Delay.Mode)
}

func TestInvalidEnvValuesAreIgnored(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
