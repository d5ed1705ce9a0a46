package sqlight

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the connection configuration for a handle.
// It can be built directly or loaded from a YAML file via LoadConfig.
// Treat values as immutable once a handle has been constructed from them.
type Config struct {
	// Database is the filesystem path to the SQLite database file.
	// The directory is created if it doesn't exist.
	Database string `yaml:"database"`

	// SQLTemplatesDir is the directory searched for named SQL template
	// files. Optional; only required when template queries are resolved
	// without an explicit directory.
	SQLTemplatesDir string `yaml:"sql_templates_dir"`

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	// Prevents "database is locked" errors under contention.
	BusyTimeout int `yaml:"busy_timeout"`

	// WALMode enables Write-Ahead Logging for better concurrent access.
	WALMode bool `yaml:"wal_mode"`

	// Autocommit makes every statement commit implicitly. When false
	// (the default), statements accumulate in a transaction that is
	// finalised by Commit and rolled back on Close.
	Autocommit bool `yaml:"autocommit"`

	// Logging contains log output settings, used by consumers such as
	// the sqlight CLI. The library itself is silent unless a logger is
	// attached with WithLogger.
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// LoadConfig reads configuration from a YAML file and applies
// environment variable overrides.
//
// The loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SQLIGHT_KEY
// For example: SQLIGHT_DATABASE, SQLIGHT_TEMPLATES_DIR, SQLIGHT_BUSY_TIMEOUT
//
// Path existence is validated lazily: a nonexistent database path is
// only an error when the connection is opened, and a nonexistent
// template directory only when a template is resolved against it.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BusyTimeout: 5,
		WALMode:     true,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables follow the pattern: SQLIGHT_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SQLIGHT_DATABASE"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("SQLIGHT_TEMPLATES_DIR"); v != "" {
		cfg.SQLTemplatesDir = v
	}
	if v := os.Getenv("SQLIGHT_BUSY_TIMEOUT"); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.BusyTimeout = timeout
		}
	}
}

// Validate checks the configuration for errors.
// Only type and presence checks happen here; path existence is
// deferred to open and template resolution.
func (c *Config) Validate() error {
	var errs []string

	if c.Database == "" {
		errs = append(errs, "database is required")
	}
	if c.BusyTimeout < 0 {
		errs = append(errs, "busy_timeout must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
