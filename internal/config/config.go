// Package config loads the startup-time constants named in §6: the
// spatial/time search parameters, the HTTP port, the cache TTL and the
// rate limits, all overridable via environment variables in the teacher's
// getEnv style. Postgres and Redis connection settings are loaded by the
// db and searchcache packages, not here.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/passbi/meetpoint/internal/search"
)

// Config is the fully-resolved set of engine and server parameters for
// one process lifetime.
type Config struct {
	Search search.Config

	Port        string
	CacheTTL    time.Duration
	RateLimitPerSecond int
	RateLimitPerDay    int
}

// LoadFromEnv builds a Config from environment variables, falling back
// to the reference defaults from §4.4/§4.6 where unset.
func LoadFromEnv() Config {
	base := search.DefaultConfig()

	return Config{
		Search: search.Config{
			WalkSpeedMPS:  getFloatEnv("WALK_SPEED_MPS", base.WalkSpeedMPS),
			MaxWalkTimeS:  getIntEnv("MAX_WALK_TIME_S", base.MaxWalkTimeS),
			MaxTripTimeS:  getIntEnv("MAX_TRIP_TIME_S", base.MaxTripTimeS),
			ProgressStepS: getIntEnv("PROGRESS_STEP_S", base.ProgressStepS),
		},
		Port:               getEnv("PORT", "8080"),
		CacheTTL:           getDurationEnv("SEARCH_CACHE_TTL", 10*time.Minute),
		RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 5),
		RateLimitPerDay:    getIntEnv("RATE_LIMIT_PER_DAY", 10000),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
