// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath         string
	FocusPath            string
	SitesPath            string
	LogPath              string
	LogLevel             string
	TickInterval         time.Duration
	NotificationsEnabled bool
}

// Default values
const (
	defaultTickInterval = 30 * time.Second
	defaultLogLevel     = "info"
	appDirName          = "ai-footprint"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath:         getEnvString("DATABASE_PATH", defaultPath("footprint.db")),
		FocusPath:            getEnvString("FOCUS_PATH", defaultPath("focus.json")),
		SitesPath:            getEnvString("SITES_PATH", defaultPath("sites.toml")),
		LogPath:              getEnvString("LOG_PATH", defaultPath("aft.log")),
		LogLevel:             getEnvString("LOG_LEVEL", defaultLogLevel),
		TickInterval:         getEnvDuration("TICK_INTERVAL", defaultTickInterval),
		NotificationsEnabled: getEnvBool("NOTIFICATIONS_ENABLED", true),
	}

	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}

	for _, path := range []string{cfg.DatabasePath, cfg.FocusPath, cfg.LogPath} {
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ConfigDir returns the directory holding the default state files.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if dir := ConfigDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, ".env"))
	}

	return paths
}

// defaultPath returns name inside the config directory, or name itself when
// the home directory cannot be resolved.
func defaultPath(name string) string {
	dir := ConfigDir()
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
// Accepts strconv.ParseBool forms plus "yes"/"no" and "on"/"off".
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
