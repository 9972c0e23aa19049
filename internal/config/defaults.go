package config

import (
	"github.com/bobmcallan/stocksage/internal/common"
)

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 8000,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/stocksage",
			},
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL: "https://query1.finance.yahoo.com",
				Timeout: "30s",
			},
			LLM: LLMConfig{
				Timeout: "60s",
			},
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Outputs: []string{"console", "file"},
		},
	}
}
