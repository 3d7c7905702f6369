// Package config loads client configuration from an optional YAML file
// and environment variables. All variables use the COURSEDESK_ prefix;
// the environment always wins over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all client configuration.
type Config struct {
	API     APIConfig
	History HistoryConfig
	Export  ExportConfig
	Log     LogConfig
}

// APIConfig holds settings for the remote course service.
type APIConfig struct {
	BaseURL string
}

// HistoryConfig holds chat-history persistence settings.
type HistoryConfig struct {
	Backend     string // "file", "redis" or "postgres"
	File        string
	RedisURL    string
	PostgresURL string
}

// ExportConfig holds transcript/score export settings.
type ExportConfig struct {
	Dir string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// fileConfig mirrors Config for the YAML config file.
type fileConfig struct {
	API struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"api"`
	History struct {
		Backend     string `yaml:"backend"`
		File        string `yaml:"file"`
		RedisURL    string `yaml:"redis_url"`
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"history"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads configuration: defaults, then the config file (if any),
// then COURSEDESK_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
		},
		History: HistoryConfig{
			Backend: "file",
			File:    defaultHistoryFile(),
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if err := cfg.applyFile(configFilePath()); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	return cfg, nil
}

// applyFile merges values from a YAML config file. A missing file is
// not an error; a malformed one is.
func (c *Config) applyFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	setIfPresent(&c.API.BaseURL, fc.API.BaseURL)
	setIfPresent(&c.History.Backend, fc.History.Backend)
	setIfPresent(&c.History.File, fc.History.File)
	setIfPresent(&c.History.RedisURL, fc.History.RedisURL)
	setIfPresent(&c.History.PostgresURL, fc.History.PostgresURL)
	setIfPresent(&c.Export.Dir, fc.Export.Dir)
	setIfPresent(&c.Log.Level, fc.Log.Level)
	setIfPresent(&c.Log.Format, fc.Log.Format)
	return nil
}

func (c *Config) applyEnv() {
	c.API.BaseURL = envStr("COURSEDESK_API_BASE_URL", c.API.BaseURL)
	c.History.Backend = envStr("COURSEDESK_HISTORY_BACKEND", c.History.Backend)
	c.History.File = envStr("COURSEDESK_HISTORY_FILE", c.History.File)
	c.History.RedisURL = envStr("COURSEDESK_HISTORY_REDIS_URL", c.History.RedisURL)
	c.History.PostgresURL = envStr("COURSEDESK_HISTORY_POSTGRES_URL", c.History.PostgresURL)
	c.Export.Dir = envStr("COURSEDESK_EXPORT_DIR", c.Export.Dir)
	c.Log.Level = envStr("COURSEDESK_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envStr("COURSEDESK_LOG_FORMAT", c.Log.Format)
}

// Validate checks that required configuration is present and coherent.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("COURSEDESK_API_BASE_URL is required")
	}

	switch c.History.Backend {
	case "file":
		if c.History.File == "" {
			return fmt.Errorf("COURSEDESK_HISTORY_FILE is required for the file backend")
		}
	case "redis":
		if c.History.RedisURL == "" {
			return fmt.Errorf("COURSEDESK_HISTORY_REDIS_URL is required for the redis backend")
		}
	case "postgres":
		if c.History.PostgresURL == "" {
			return fmt.Errorf("COURSEDESK_HISTORY_POSTGRES_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("COURSEDESK_HISTORY_BACKEND must be 'file', 'redis' or 'postgres', got %q", c.History.Backend)
	}

	return nil
}

// configFilePath returns the config file location: COURSEDESK_CONFIG if
// set, otherwise ~/.config/coursedesk/config.yaml.
func configFilePath() string {
	if p := os.Getenv("COURSEDESK_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "coursedesk", "config.yaml")
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "coursedesk-history.json"
	}
	return filepath.Join(home, ".local", "share", "coursedesk", "history.json")
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
