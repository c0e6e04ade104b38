package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 1536, cfg.Database.Dimension)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.APIKeyEnv)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.Model)
	assert.Equal(t, 30, cfg.Embedder.TimeoutSecs)
	assert.Equal(t, 2.0, cfg.Indexer.CallsPerSecond)
	assert.Equal(t, 0.7, cfg.Search.Threshold)
	assert.Equal(t, 10, cfg.Search.Limit)
	assert.Equal(t, ":8000", cfg.Server.Addr)
}

func TestLoadAppliesFileValuesAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  dsn: postgres://localhost/lucerna
embedder:
  model: text-embedding-3-large
search:
  threshold: 0.8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/lucerna", cfg.Database.DSN)
	assert.Equal(t, "postgres://localhost/lucerna", cfg.Database.CatalogDSN)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedder.Model)
	assert.Equal(t, 0.8, cfg.Search.Threshold)
	assert.Equal(t, 10, cfg.Search.Limit)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
