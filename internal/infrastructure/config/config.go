// Package config loads application settings from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the process configuration.
type Config struct {
	Port           string
	DBPath         string
	TreasuryAPIURL string
	LogLevel       string
}

// Load reads an optional .env file and returns the configuration with
// defaults applied.
func Load() *Config {
	// A missing .env is fine in production; env vars still apply.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBPath:         getEnv("DB_PATH", "./data"),
		TreasuryAPIURL: getEnv("TREASURY_API_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
