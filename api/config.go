package api

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration.
type Config struct {
	Listen        string `yaml:"listen"`
	DBPath        string `yaml:"db_path"`
	OpenHour      int    `yaml:"open_hour"`
	CloseHour     int    `yaml:"close_hour"`
	MaxUploadMB   int    `yaml:"max_upload_mb"`
	RetentionDays int    `yaml:"retention_days"`
	LogLevel      string `yaml:"log_level"`
}

// DefaultConfig returns sane defaults: a 13-slot operating day and a local
// SQLite file.
func DefaultConfig() *Config {
	return &Config{
		Listen:        ":5000",
		DBPath:        "retail.db",
		OpenHour:      9,
		CloseHour:     21,
		MaxUploadMB:   10,
		RetentionDays: 90,
		LogLevel:      "info",
	}
}

// LoadConfig reads and parses a YAML config file, merged over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.OpenHour < 0 || c.OpenHour > 23 {
		return fmt.Errorf("open_hour must be in 0..23")
	}
	if c.CloseHour < 0 || c.CloseHour > 23 {
		return fmt.Errorf("close_hour must be in 0..23")
	}
	if c.CloseHour < c.OpenHour {
		return fmt.Errorf("close_hour must not precede open_hour")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be > 0")
	}
	return nil
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}
