package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the viewer configuration
type Config struct {
	Port        int
	CacheTTL    time.Duration
	GracePeriod time.Duration
}

// Load reads config from env
func Load() *Config {
	// Try .env first, fall back to plain environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:        getEnvInt("PORT", 5555),
		CacheTTL:    time.Duration(getEnvInt("CACHE_TTL_SECONDS", 5)) * time.Second,
		GracePeriod: time.Duration(getEnvInt("GRACE_PERIOD_MS", 500)) * time.Millisecond,
	}
}

// getEnvInt parses an integer env var with fallback
func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
