// Package config provides configuration management for the legacy import
// pipeline. It supports YAML files, environment variable overrides, and
// provides sensible defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Write modes selecting the persistence backend for migrated entities.
const (
	WriteModeSQL = "sql"
	WriteModeAPI = "api"
)

// Config represents the complete application configuration
type Config struct {
	Legacy Database     `yaml:"legacy"` // Read-only legacy MySQL schema
	Target Database     `yaml:"target"` // Destination MySQL schema (sql write mode)
	API    APIConfig    `yaml:"api"`    // Destination REST API (api write mode)
	Import ImportConfig `yaml:"import"` // Import run parameters
	Images ImageConfig  `yaml:"images"` // Image synchronization settings
	Logger LoggerConfig `yaml:"logger"` // Logging configuration
}

// Database contains MySQL connection and pool settings
type Database struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	MaxConnections  int           `yaml:"max_connections"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	Timeout         time.Duration `yaml:"timeout"` // Query timeout
}

// APIConfig contains settings for the HTTP API write backend
type APIConfig struct {
	BaseURL string        `yaml:"base_url"` // e.g. https://inventory.example.org/api
	Token   string        `yaml:"token"`    // Bearer token
	Timeout time.Duration `yaml:"timeout"`  // Per-call timeout, no automatic retry
	PerPage int           `yaml:"per_page"` // Page size for index searches
}

// ImportConfig contains import run parameters
type ImportConfig struct {
	WriteMode       string `yaml:"write_mode"`       // sql or api
	DryRun          bool   `yaml:"dry_run"`          // Log intended actions without writing
	SampleOnly      bool   `yaml:"sample_only"`      // Like dry-run, used for fixture collection
	DefaultLanguage string `yaml:"default_language"` // ISO 639-3 code, e.g. eng
	DefaultContext  string `yaml:"default_context"`  // Internal name of the default context
	LegacySchema    string `yaml:"legacy_schema"`    // Schema prefix for backward-compatibility keys
}

// ImageConfig contains image synchronization settings
type ImageConfig struct {
	LegacyRoot string `yaml:"legacy_root"` // Read-only legacy image directory
	NewRoot    string `yaml:"new_root"`    // Destination image directory
	UseSymlink bool   `yaml:"use_symlink"` // Symlink instead of copy
}

// LoggerConfig contains logging configuration
type LoggerConfig struct {
	Level  string `yaml:"level"`  // Log level: debug, info, warn, error
	Format string `yaml:"format"` // Log format: json, text
	File   string `yaml:"file"`   // Optional log file path (empty = stderr only)
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Legacy: Database{
			Host:            "localhost",
			Port:            3306,
			User:            "root",
			Password:        "root",
			Database:        "mwnf3",
			MaxConnections:  10,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 2 * time.Minute,
			Timeout:         30 * time.Second,
		},
		Target: Database{
			Host:            "localhost",
			Port:            3306,
			User:            "root",
			Password:        "root",
			Database:        "inventory",
			MaxConnections:  10,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 2 * time.Minute,
			Timeout:         30 * time.Second,
		},
		API: APIConfig{
			BaseURL: "http://localhost:8000/api",
			Timeout: 30 * time.Second,
			PerPage: 100,
		},
		Import: ImportConfig{
			WriteMode:       WriteModeSQL,
			DefaultLanguage: "eng",
			DefaultContext:  "legacy import",
			LegacySchema:    "mwnf3",
		},
		Images: ImageConfig{
			LegacyRoot: "storage/legacy-images",
			NewRoot:    "storage/app/public/images",
			UseSymlink: false,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from file and applies environment variable overrides
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Load from YAML file if it exists
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// overrideWithEnv applies environment variable overrides to configuration
func overrideWithEnv(cfg *Config) {
	envOverrides := map[string]interface{}{
		"LEGACY_DB_HOST":     &cfg.Legacy.Host,
		"LEGACY_DB_PORT":     &cfg.Legacy.Port,
		"LEGACY_DB_USER":     &cfg.Legacy.User,
		"LEGACY_DB_PASSWORD": &cfg.Legacy.Password,
		"LEGACY_DB_NAME":     &cfg.Legacy.Database,
		"TARGET_DB_HOST":     &cfg.Target.Host,
		"TARGET_DB_PORT":     &cfg.Target.Port,
		"TARGET_DB_USER":     &cfg.Target.User,
		"TARGET_DB_PASSWORD": &cfg.Target.Password,
		"TARGET_DB_NAME":     &cfg.Target.Database,
		"API_BASE_URL":       &cfg.API.BaseURL,
		"API_TOKEN":          &cfg.API.Token,
		"LOG_LEVEL":          &cfg.Logger.Level,
	}

	for envVar, target := range envOverrides {
		if value := os.Getenv(envVar); value != "" {
			switch v := target.(type) {
			case *string:
				*v = value
			case *int:
				if intVal, err := strconv.Atoi(value); err == nil {
					*v = intVal
				}
			}
		}
	}
}

// Validate ensures all required configuration values are present and valid
func (c *Config) Validate() error {
	if err := c.Legacy.validate("legacy"); err != nil {
		return err
	}

	switch c.Import.WriteMode {
	case WriteModeSQL:
		if err := c.Target.validate("target"); err != nil {
			return err
		}
	case WriteModeAPI:
		if c.API.BaseURL == "" {
			return fmt.Errorf("api base_url is required in api write mode")
		}
		if c.API.PerPage <= 0 {
			return fmt.Errorf("api per_page must be positive")
		}
	default:
		return fmt.Errorf("import write_mode must be %q or %q, got %q",
			WriteModeSQL, WriteModeAPI, c.Import.WriteMode)
	}

	if c.Import.DefaultLanguage == "" {
		return fmt.Errorf("import default_language is required")
	}
	if c.Import.LegacySchema == "" {
		return fmt.Errorf("import legacy_schema is required")
	}

	return nil
}

func (d *Database) validate(name string) error {
	if d.Host == "" {
		return fmt.Errorf("%s database host is required", name)
	}
	if d.Database == "" {
		return fmt.Errorf("%s database name is required", name)
	}
	if d.Port <= 0 || d.Port > 65535 {
		return fmt.Errorf("%s database port must be between 1 and 65535", name)
	}
	return nil
}

// ConnectionString builds a MySQL DSN (Data Source Name) connection string
func (d *Database) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&timeout=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Timeout)
}
