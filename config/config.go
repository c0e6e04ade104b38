// Package config loads the application configuration from YAML.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds connection details for the catalog and the index.
type DatabaseConfig struct {
	// DSN selects the index store: postgres:// for pgvector, a file path
	// for SQLite, empty for the default local file.
	DSN string `yaml:"dsn"`

	// CatalogDSN is the read-only catalog database. Empty means the
	// index DSN is used.
	CatalogDSN string `yaml:"catalog_dsn"`

	// Dimension is the embedding dimension of the model in use.
	Dimension int `yaml:"dimension"`
}

// EmbedderConfig configures the embeddings client.
type EmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// IndexerConfig configures batch pacing.
type IndexerConfig struct {
	CallsPerSecond float64 `yaml:"calls_per_second"`
}

// SearchConfig configures the query service.
type SearchConfig struct {
	Threshold float64 `yaml:"threshold"`
	Limit     int     `yaml:"limit"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Database DatabaseConfig `yaml:"database"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Indexer  IndexerConfig  `yaml:"indexer"`
	Search   SearchConfig   `yaml:"search"`
	Server   ServerConfig   `yaml:"server"`
}

// Load reads a config from the given path. A missing file yields the
// defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := &AppConfig{}
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Database.Dimension == 0 {
		cfg.Database.Dimension = 1536
	}
	if cfg.Database.CatalogDSN == "" {
		cfg.Database.CatalogDSN = cfg.Database.DSN
	}
	if cfg.Embedder.APIKeyEnv == "" {
		cfg.Embedder.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "text-embedding-3-small"
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 30
	}
	if cfg.Indexer.CallsPerSecond == 0 {
		cfg.Indexer.CallsPerSecond = 2
	}
	if cfg.Search.Threshold == 0 {
		cfg.Search.Threshold = 0.7
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = 10
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
}
