// Package config loads application configuration from the environment.
//
// A .env file in the working directory is loaded first (if present), then
// individual variables are read with sensible defaults, so a bare
// `go run ./cmd/server` works out of the box for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	DBPath          string
	TemplateDir     string
	StaticDir       string
	SessionLifetime time.Duration
}

// Load reads the .env file (ignored when absent) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnvInt("PORT", 8080),
		DBPath:          getEnv("DB_PATH", "data/blog.db"),
		TemplateDir:     getEnv("TEMPLATE_DIR", "web/templates"),
		StaticDir:       getEnv("STATIC_DIR", "web/static"),
		SessionLifetime: getEnvDuration("SESSION_LIFETIME", 24*time.Hour),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}
