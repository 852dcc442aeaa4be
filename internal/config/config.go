// Package config loads the application configuration from files and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Dashboard listen address. Loopback only; the dashboard is a local
	// window, not a network service.
	Listen string `mapstructure:"listen"`

	// SQLite database path. Empty disables persistence.
	DBPath string `mapstructure:"db_path"`

	// Tracking cadence
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`

	// Retention window for persisted rows and dashboard reads
	RetentionHours int `mapstructure:"retention_hours"`

	// Max rows in the dashboard's recent activity list
	RecentLimit int `mapstructure:"recent_limit"`

	// Open the dashboard window on startup
	OpenBrowser bool `mapstructure:"open_browser"`

	// Log verbosity: development enables debug-level console output
	LogDevelopment bool `mapstructure:"log_development"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Listen:         "127.0.0.1:3030",
		DBPath:         "usage.db",
		TickInterval:   time.Second,
		FlushInterval:  30 * time.Second,
		RetentionHours: 24,
		RecentLimit:    50,
		OpenBrowser:    true,
		LogDevelopment: false,
	}
}

// Load loads configuration, lowest precedence first: defaults, then the
// config file (explicit path, else the standard locations), then
// FORETIME_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	configFile := path
	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configFile, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the tracker cannot run with.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if c.FlushInterval < c.TickInterval {
		return fmt.Errorf("flush interval must be at least the tick interval")
	}
	if c.RetentionHours <= 0 {
		return fmt.Errorf("retention hours must be positive")
	}
	if c.RecentLimit <= 0 {
		return fmt.Errorf("recent limit must be positive")
	}
	return nil
}

// Retention returns the retention window as a duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}

// findConfigFile searches the standard locations for a config file.
func findConfigFile() string {
	names := []string{".foretime.yaml", ".foretime.yml", "foretime.yaml", "foretime.yml"}

	var searchPaths []string
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "foretime"))
	}

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies FORETIME_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FORETIME_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("FORETIME_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("FORETIME_TICK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TickInterval = d
		}
	}
	if v := os.Getenv("FORETIME_FLUSH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.FlushInterval = d
		}
	}
	if v := os.Getenv("FORETIME_RETENTION_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RetentionHours = n
		}
	}
	if v := os.Getenv("FORETIME_RECENT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RecentLimit = n
		}
	}
	if v := os.Getenv("FORETIME_OPEN_BROWSER"); v != "" {
		cfg.OpenBrowser = v == "true" || v == "1"
	}
	if v := os.Getenv("FORETIME_LOG_DEVELOPMENT"); v == "true" || v == "1" {
		cfg.LogDevelopment = true
	}
}
