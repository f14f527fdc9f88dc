package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	os.Unsetenv("MAX_TRIP_TIME_S")
	os.Unsetenv("WALK_SPEED_MPS")

	cfg := LoadFromEnv()
	assert.Equal(t, 7200, cfg.Search.MaxTripTimeS)
	assert.Equal(t, 1.3, cfg.Search.WalkSpeedMPS)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	os.Setenv("MAX_TRIP_TIME_S", "60")
	defer os.Unsetenv("MAX_TRIP_TIME_S")

	cfg := LoadFromEnv()
	assert.Equal(t, 60, cfg.Search.MaxTripTimeS)
}
