// Package config loads and validates the service configuration from
// defaults, an optional YAML file and MEETSCHED_* environment
// variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout_seconds"`
	WriteTimeout int    `yaml:"write_timeout_seconds"`
}

// DatabaseConfig represents the SQLite meeting store configuration.
type DatabaseConfig struct {
	// Path is the SQLite database file; ":memory:" selects an
	// in-process database that vanishes on shutdown.
	Path string `yaml:"path"`
	// BusyTimeoutMS is passed to SQLite so concurrent writers wait
	// instead of failing immediately.
	BusyTimeoutMS int `yaml:"busy_timeout_ms"`
}

// SchedulerConfig bounds the conflict engine.
type SchedulerConfig struct {
	BufferMinutes      int `yaml:"buffer_minutes"`
	SlotGranularityMin int `yaml:"slot_granularity_minutes"`
	DayStartHour       int `yaml:"day_start_hour"`
	DayEndHour         int `yaml:"day_end_hour"`
	SearchDays         int `yaml:"search_days"`
	MaxPerFutureDay    int `yaml:"max_per_future_day"`
	MinSameDaySlots    int `yaml:"min_same_day_slots"`
	MaxSuggestions     int `yaml:"max_suggestions"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "localhost",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Database: DatabaseConfig{
			Path:          "./data/meetsched.db",
			BusyTimeoutMS: 5000,
		},
		Scheduler: SchedulerConfig{
			BufferMinutes:      10,
			SlotGranularityMin: 15,
			DayStartHour:       8,
			DayEndHour:         20,
			SearchDays:         3,
			MaxPerFutureDay:    3,
			MinSameDaySlots:    3,
			MaxSuggestions:     5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// MEETSCHED_CONFIG_FILE (if set and present), then environment
// overrides. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := DefaultConfig()

	if path := os.Getenv("MEETSCHED_CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadFile merges a YAML config file over the current values.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// loadFromEnv applies MEETSCHED_* environment overrides.
func loadFromEnv(cfg *Config) {
	setString(&cfg.Server.Host, "MEETSCHED_HOST")
	setInt(&cfg.Server.Port, "MEETSCHED_PORT")
	setInt(&cfg.Server.ReadTimeout, "MEETSCHED_READ_TIMEOUT_SECONDS")
	setInt(&cfg.Server.WriteTimeout, "MEETSCHED_WRITE_TIMEOUT_SECONDS")

	setString(&cfg.Database.Path, "MEETSCHED_DB_PATH")
	setInt(&cfg.Database.BusyTimeoutMS, "MEETSCHED_DB_BUSY_TIMEOUT_MS")

	setInt(&cfg.Scheduler.BufferMinutes, "MEETSCHED_BUFFER_MINUTES")
	setInt(&cfg.Scheduler.SlotGranularityMin, "MEETSCHED_SLOT_GRANULARITY_MINUTES")
	setInt(&cfg.Scheduler.DayStartHour, "MEETSCHED_DAY_START_HOUR")
	setInt(&cfg.Scheduler.DayEndHour, "MEETSCHED_DAY_END_HOUR")
	setInt(&cfg.Scheduler.SearchDays, "MEETSCHED_SEARCH_DAYS")
	setInt(&cfg.Scheduler.MaxPerFutureDay, "MEETSCHED_MAX_PER_FUTURE_DAY")
	setInt(&cfg.Scheduler.MinSameDaySlots, "MEETSCHED_MIN_SAME_DAY_SLOTS")
	setInt(&cfg.Scheduler.MaxSuggestions, "MEETSCHED_MAX_SUGGESTIONS")

	setString(&cfg.Logging.Level, "MEETSCHED_LOG_LEVEL")
	setString(&cfg.Logging.Format, "MEETSCHED_LOG_FORMAT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Scheduler.BufferMinutes < 0 {
		return fmt.Errorf("buffer minutes cannot be negative")
	}
	if c.Scheduler.SlotGranularityMin <= 0 {
		return fmt.Errorf("slot granularity must be positive")
	}
	if c.Scheduler.DayStartHour < 0 || c.Scheduler.DayEndHour > 24 ||
		c.Scheduler.DayStartHour >= c.Scheduler.DayEndHour {
		return fmt.Errorf("invalid working-day window %d-%d",
			c.Scheduler.DayStartHour, c.Scheduler.DayEndHour)
	}
	if c.Scheduler.SearchDays < 0 {
		return fmt.Errorf("search days cannot be negative")
	}
	if c.Scheduler.MaxSuggestions <= 0 {
		return fmt.Errorf("max suggestions must be positive")
	}
	return nil
}
