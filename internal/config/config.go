// Package config loads pointshell settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all pointshell configuration.
type Config struct {
	Env string
	// Addr is the listen address of the HTTP and WebSocket server.
	Addr string
	// PointsFile is used by save and load when no file is given.
	PointsFile string
	// StaticDir is served under /static when it exists.
	StaticDir         string
	BroadcastInterval time.Duration
	// Server enables the broadcast server next to the shell.
	Server bool
}

// Load reads a .env file if present followed by POINTSHELL_* environment
// variables and validates the result.
func Load() (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	interval, err := getEnvDuration("POINTSHELL_BROADCAST_INTERVAL", 100*time.Millisecond)
	if err != nil {
		return nil, err
	}
	server, err := getEnvBool("POINTSHELL_SERVER", true)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Env:               getEnv("POINTSHELL_ENV", "development"),
		Addr:              getEnv("POINTSHELL_ADDR", ":3030"),
		PointsFile:        getEnv("POINTSHELL_POINTS_FILE", "maps/points.bin"),
		StaticDir:         getEnv("POINTSHELL_STATIC_DIR", "static"),
		BroadcastInterval: interval,
		Server:            server,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that required values are set.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("POINTSHELL_ADDR is required")
	}
	if c.BroadcastInterval <= 0 {
		return fmt.Errorf("POINTSHELL_BROADCAST_INTERVAL must be positive, got %s", c.BroadcastInterval)
	}
	if c.PointsFile == "" {
		return errors.New("POINTSHELL_POINTS_FILE is required")
	}
	return nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
