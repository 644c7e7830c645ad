// Package config loads the runtime configuration: built-in defaults, then an
// optional YAML file, then environment variables. Command-line flags are
// applied on top by the cli package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"cycledebt/internal/log"
)

// Environment variables read by Load.
const (
	EnvConfigPath  = "CYCLEDEBT_CONFIG_PATH"
	EnvDir         = "CYCLEDEBT_DIR"
	EnvWindowWeeks = "CYCLEDEBT_WINDOW_WEEKS"
	EnvWorkers     = "CYCLEDEBT_WORKERS"
	EnvLogLevel    = "CYCLEDEBT_LOG_LEVEL"
	EnvMetricsFile = "CYCLEDEBT_METRICS_FILE"
	EnvShowTable   = "CYCLEDEBT_SHOW_TABLE"
)

const (
	maxWindowWeeks = 520
	maxWorkers     = 256
)

type Config struct {
	// Directory of location-history documents
	Dir string `yaml:"dir"`

	// Report
	WindowWeeks int  `yaml:"window_weeks"`
	ShowTable   bool `yaml:"show_table"`

	// Documents parsed concurrently
	Workers int `yaml:"workers"`

	// Logging and metrics
	LogLevel    string `yaml:"log_level"`
	MetricsFile string `yaml:"metrics_file"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		WindowWeeks: 1,
		Workers:     4,
		LogLevel:    "info",
	}
}

// Load reads the optional YAML file named by CYCLEDEBT_CONFIG_PATH and then
// environment variables over the defaults.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Dir = getEnv(EnvDir, cfg.Dir)
	cfg.WindowWeeks = getEnvInt(EnvWindowWeeks, cfg.WindowWeeks)
	cfg.Workers = getEnvInt(EnvWorkers, cfg.Workers)
	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)
	cfg.MetricsFile = getEnv(EnvMetricsFile, cfg.MetricsFile)
	cfg.ShowTable = getEnvBool(EnvShowTable, cfg.ShowTable)

	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.Dir == "" {
		errors = append(errors, fmt.Sprintf("no document directory: pass it as an argument or set %s", EnvDir))
	} else if info, err := os.Stat(c.Dir); err != nil {
		errors = append(errors, fmt.Sprintf("cannot access document directory '%s': %v", c.Dir, err))
	} else if !info.IsDir() {
		errors = append(errors, fmt.Sprintf("document path '%s' is not a directory", c.Dir))
	}

	if c.WindowWeeks < 0 || c.WindowWeeks > maxWindowWeeks {
		errors = append(errors, fmt.Sprintf("invalid window %d weeks: must be between 0 and %d", c.WindowWeeks, maxWindowWeeks))
	}

	if c.Workers < 1 || c.Workers > maxWorkers {
		errors = append(errors, fmt.Sprintf("invalid workers %d: must be between 1 and %d", c.Workers, maxWorkers))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.MetricsFile != "" {
		dir := filepath.Dir(c.MetricsFile)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			errors = append(errors, fmt.Sprintf("metrics file directory '%s' does not exist", dir))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
