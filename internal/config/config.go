// Package config loads daemon configuration from the environment, with
// optional .env file support for development.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Env is "dev" or "prod".
	Env      string
	LogLevel string
	DBPath   string
	// TickInterval is the scheduler loop period.
	TickInterval time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; real environment variables win.
func Load() (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := Config{
		Env:          strings.ToLower(getenv("SYNAR_ENV", "dev")),
		LogLevel:     getenv("SYNAR_LOG_LEVEL", "info"),
		DBPath:       getenv("SYNAR_DB_PATH", "synar.db"),
		TickInterval: 60 * time.Second,
	}

	if cfg.Env != "dev" && cfg.Env != "prod" {
		return Config{}, fmt.Errorf("invalid SYNAR_ENV %q (expected dev or prod)", cfg.Env)
	}

	if raw := strings.TrimSpace(os.Getenv("SYNAR_TICK_INTERVAL")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SYNAR_TICK_INTERVAL %q: %w", raw, err)
		}
		if d < time.Second {
			return Config{}, fmt.Errorf("SYNAR_TICK_INTERVAL %s too short", d)
		}
		cfg.TickInterval = d
	}

	return cfg, nil
}

func getenv(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}
