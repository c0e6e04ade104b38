// Command lucerna-indexer rebuilds the semantic catalog index end to end.
// It exits non-zero only on configuration errors; per-entity failures are
// reported in the summary and do not fail the run.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/luxmx/lucerna/config"
	"github.com/luxmx/lucerna/embedding"
	"github.com/luxmx/lucerna/index"
	"github.com/luxmx/lucerna/indexer"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	flag.Parse()

	// Optional .env for local runs; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[indexer] load config: %v", err)
	}

	embedder, err := embedding.NewOpenAIClient(embedding.OpenAIConfig{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("[indexer] %v", err)
	}

	store, err := index.NewStore(cfg.Database.DSN, cfg.Database.Dimension)
	if err != nil {
		log.Fatalf("[indexer] open index store: %v", err)
	}
	defer store.Close()

	source, err := newSource(cfg)
	if err != nil {
		log.Fatalf("[indexer] open catalog: %v", err)
	}

	ix := indexer.New(indexer.Config{
		Source:         source,
		Embedder:       embedder,
		Store:          store,
		CallsPerSecond: cfg.Indexer.CallsPerSecond,
	})

	log.Printf("[indexer] starting full reindex (model %s)", embedder.ModelVersion())
	summary, err := ix.Run(context.Background())
	if err != nil {
		// A mid-run failure is reported but does not change the exit
		// code: whatever was written stays valid.
		log.Printf("[indexer] run stopped early: %v", err)
	}

	log.Printf("[indexer] done: %d products, %d variants, %d configurations, %d accessories",
		summary.Products, summary.Variants, summary.Configurations, summary.Accessories)
	log.Printf("[indexer] %d embeddings written, %d errors (model %s)",
		summary.Embeddings, summary.Errors, summary.ModelVersion)
}
