// Package config holds the search configuration and its sources
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Default values
const (
	DefaultThreshold = 0.80
	DefaultChannels  = 3
	DefaultWorkers   = 1
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "REGIONFINDER_"

// Config holds the options of the region search engine
type Config struct {
	Threshold               float64  `json:"threshold"`
	FileExtensions          []string `json:"file_extensions"`
	CaseSensitiveExtensions bool     `json:"case_sensitive_extensions"`
	Channels                int      `json:"channels"`
	Workers                 int      `json:"workers"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Threshold:               DefaultThreshold,
		FileExtensions:          []string{".png", ".jpeg"},
		CaseSensitiveExtensions: false,
		Channels:                DefaultChannels,
		Workers:                 DefaultWorkers,
	}
}

// LoadFromFile loads configuration from a JSON file on top of the defaults
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from REGIONFINDER_* environment variables.
// Unparseable values are ignored and the current value is kept.
func (c *Config) ApplyEnv() {
	c.Threshold = getEnvFloat(EnvPrefix+"THRESHOLD", c.Threshold)
	c.FileExtensions = getEnvList(EnvPrefix+"EXTENSIONS", c.FileExtensions)
	c.CaseSensitiveExtensions = getEnvBool(EnvPrefix+"CASE_SENSITIVE", c.CaseSensitiveExtensions)
	c.Channels = getEnvInt(EnvPrefix+"CHANNELS", c.Channels)
	c.Workers = getEnvInt(EnvPrefix+"WORKERS", c.Workers)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Threshold < -1 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be between -1 and 1, got %v", c.Threshold)
	}

	if len(c.FileExtensions) == 0 {
		return fmt.Errorf("file_extensions cannot be empty")
	}
	for _, ext := range c.FileExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("file extension %q must start with a dot", ext)
		}
	}

	switch c.Channels {
	case 1, 3, 4:
	default:
		return fmt.Errorf("channels must be 1, 3 or 4, got %d", c.Channels)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./regionfinder.json"
	}
	return filepath.Join(home, ".config", "regionfinder", "config.json")
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				result = append(result, t)
			}
		}
		return result
	}
	return def
}
