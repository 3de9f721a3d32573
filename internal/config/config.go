// Package config loads runtime configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	TokenTTL  time.Duration
	Env       string
}

// Load reads an optional .env file and returns the resolved configuration.
func Load() *Config {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("DB_PATH", "./data/tripsettle.db"),
		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getDuration("TOKEN_TTL", 24*time.Hour),
		Env:       getEnv("ENV", "development"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration in environment, using default", "key", key, "value", value)
		return fallback
	}
	return d
}
