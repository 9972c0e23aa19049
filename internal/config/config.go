package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/stocksage/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Environment string               `toml:"environment"`
	Server      ServerConfig         `toml:"server"`
	Storage     StorageConfig        `toml:"storage"`
	Clients     ClientsConfig        `toml:"clients"`
	Logging     common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds external API client configurations.
type ClientsConfig struct {
	Yahoo YahooConfig `toml:"yahoo"`
	LLM   LLMConfig   `toml:"llm"`
}

// YahooConfig holds Yahoo Finance API configuration.
type YahooConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LLMConfig holds language-model client configuration. When Provider is
// empty, the provider is selected at startup from available credentials in
// the environment (OPENAI_API_KEY, DEEPSEEK_API_KEY, GITHUB_TOKEN,
// GEMINI_API_KEY, first present wins).
type LLMConfig struct {
	Provider string `toml:"provider"` // openai, deepseek, github, gemini
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Timeout  string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *LLMConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// IsDevMode reports whether the service runs with dev behaviors enabled.
func (c *Config) IsDevMode() bool {
	return c.Environment == "dev"
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies STOCKSAGE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("STOCKSAGE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("STOCKSAGE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if badgerPath := os.Getenv("STOCKSAGE_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if level := os.Getenv("STOCKSAGE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if provider := os.Getenv("STOCKSAGE_LLM_PROVIDER"); provider != "" {
		config.Clients.LLM.Provider = provider
	}
	if model := os.Getenv("STOCKSAGE_LLM_MODEL"); model != "" {
		config.Clients.LLM.Model = model
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks mandatory configuration and returns human-readable issues.
func (c *Config) Validate() []string {
	var issues []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if c.Storage.Badger.Path == "" {
		issues = append(issues, "storage.badger.path must be set")
	}
	if c.Clients.Yahoo.BaseURL == "" {
		issues = append(issues, "clients.yahoo.base_url must be set")
	}
	return issues
}
