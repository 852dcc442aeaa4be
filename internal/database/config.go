package database

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the SQLite connection options for the usage log.
type Config struct {
	Path                  string        `json:"path" yaml:"path"`
	MaxConnections        int           `json:"maxConnections" yaml:"maxConnections"`
	MaxIdleConns          int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime       time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
	ConnMaxIdleTime       time.Duration `json:"connMaxIdleTime" yaml:"connMaxIdleTime"`
	ForceSingleConnection bool          `json:"forceSingleConnection" yaml:"forceSingleConnection"`

	// SQLite pragmas
	JournalMode     string `json:"journalMode" yaml:"journalMode"`
	SynchronousMode string `json:"synchronousMode" yaml:"synchronousMode"`
	CacheSize       int    `json:"cacheSize" yaml:"cacheSize"` // in KB
	BusyTimeout     int    `json:"busyTimeout" yaml:"busyTimeout"` // in milliseconds
	ForeignKeys     bool   `json:"foreignKeys" yaml:"foreignKeys"`
}

// DefaultConfig returns the production configuration: WAL journaling so the
// flusher's write transaction never blocks dashboard reads.
func DefaultConfig() *Config {
	return &Config{
		Path:            "usage.db",
		MaxConnections:  4,
		MaxIdleConns:    2,
		ConnMaxLifetime: 24 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		JournalMode:     "WAL",
		SynchronousMode: "NORMAL",
		CacheSize:       2000,
		BusyTimeout:     5000,
		ForeignKeys:     true,
	}
}

// TestConfig returns an in-memory configuration for tests.
func TestConfig() *Config {
	config := DefaultConfig()
	config.Path = ":memory:"
	config.ForceSingleConnection = true // shared cache not used; keep one conn so the schema survives
	config.JournalMode = "MEMORY"
	config.SynchronousMode = "OFF"
	config.CacheSize = 1000
	config.BusyTimeout = 1000
	return config
}

// ConfigForPath returns the production configuration pointed at path.
func ConfigForPath(path string) *Config {
	config := DefaultConfig()
	if path != "" {
		config.Path = path
	}
	return config
}

// GetConnectionString builds the go-sqlite3 DSN with pragma parameters.
func (c *Config) GetConnectionString() string {
	values := url.Values{}

	if c.ForeignKeys {
		values.Set("_foreign_keys", "on")
	} else {
		values.Set("_foreign_keys", "off")
	}
	values.Set("_journal_mode", c.JournalMode)
	values.Set("_synchronous", c.SynchronousMode)
	// Negative cache size makes SQLite interpret the value as KB.
	values.Set("_cache_size", fmt.Sprintf("%d", -c.CacheSize))
	values.Set("_busy_timeout", fmt.Sprintf("%d", c.BusyTimeout))

	// Escape only the characters that would break query-string parsing.
	path := c.Path
	if strings.ContainsAny(path, "?&") {
		path = strings.ReplaceAll(path, "?", "%3F")
		path = strings.ReplaceAll(path, "&", "%26")
	}

	return path + "?" + values.Encode()
}

// Validate checks the configuration for values that would misconfigure the
// connection pool or pragmas.
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.MaxConnections < 0 || c.MaxIdleConns < 0 {
		return fmt.Errorf("connection limits must be non-negative")
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("busy timeout must be non-negative")
	}
	switch strings.ToUpper(c.JournalMode) {
	case "WAL", "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "OFF":
	default:
		return fmt.Errorf("unsupported journal mode %q", c.JournalMode)
	}
	return nil
}
