// Package config handles application configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"station-walk-router/internal/directions"
)

// Config holds all application configuration
type Config struct {
	Addr              string
	MapboxAccessToken string
	CacheDBPath       string
	HTTPTimeout       time.Duration
	SearchRadiusM     float64
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		Addr:              getEnv("SERVER_ADDR", "127.0.0.1:8080"),
		MapboxAccessToken: getEnv("MAPBOX_ACCESS_TOKEN", ""),
		CacheDBPath:       getEnv("CACHE_DB_PATH", "data/walkcache.db"),
		HTTPTimeout:       time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		SearchRadiusM:     float64(getEnvInt("SEARCH_RADIUS_METERS", 800)),
	}
}

// Validate checks that required configuration is present. Called before any
// network work so a missing credential fails fast, distinctly from a runtime
// network failure.
func (c *Config) Validate() error {
	if c.MapboxAccessToken == "" {
		return &directions.ErrMissingAccessToken{}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
