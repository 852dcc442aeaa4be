package database

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Path != "usage.db" {
		t.Errorf("Path = %q, want usage.db", config.Path)
	}
	if config.JournalMode != "WAL" {
		t.Errorf("JournalMode = %q, want WAL", config.JournalMode)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestTestConfig_InMemorySingleConnection(t *testing.T) {
	config := TestConfig()

	if config.Path != ":memory:" {
		t.Errorf("Path = %q, want :memory:", config.Path)
	}
	if !config.ForceSingleConnection {
		t.Error("ForceSingleConnection = false; an in-memory database vanishes with its connection")
	}
}

func TestConfigForPath(t *testing.T) {
	if got := ConfigForPath("/tmp/track.db").Path; got != "/tmp/track.db" {
		t.Errorf("Path = %q, want /tmp/track.db", got)
	}
	if got := ConfigForPath("").Path; got != "usage.db" {
		t.Errorf("empty path: Path = %q, want default usage.db", got)
	}
}

func TestGetConnectionString(t *testing.T) {
	config := DefaultConfig()
	config.Path = "usage.db"
	config.CacheSize = 2000
	config.BusyTimeout = 5000

	dsn := config.GetConnectionString()

	if !strings.HasPrefix(dsn, "usage.db?") {
		t.Errorf("DSN does not start with path: %q", dsn)
	}
	for _, param := range []string{
		"_journal_mode=WAL",
		"_synchronous=NORMAL",
		"_cache_size=-2000",
		"_busy_timeout=5000",
		"_foreign_keys=on",
	} {
		if !strings.Contains(dsn, param) {
			t.Errorf("DSN missing %q: %q", param, dsn)
		}
	}
}

func TestGetConnectionString_EscapesPathCharacters(t *testing.T) {
	config := DefaultConfig()
	config.Path = "odd?name&here.db"

	dsn := config.GetConnectionString()
	if strings.Count(dsn, "?") != 1 {
		t.Errorf("DSN has more than one query separator: %q", dsn)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty path", func(c *Config) { c.Path = "" }, true},
		{"negative busy timeout", func(c *Config) { c.BusyTimeout = -1 }, true},
		{"negative connections", func(c *Config) { c.MaxConnections = -2 }, true},
		{"bad journal mode", func(c *Config) { c.JournalMode = "SIDEWAYS" }, true},
		{"lowercase journal mode", func(c *Config) { c.JournalMode = "wal" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
