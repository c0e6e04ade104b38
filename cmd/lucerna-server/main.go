// Command lucerna-server serves the semantic search API.
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/luxmx/lucerna/catalog"
	"github.com/luxmx/lucerna/config"
	"github.com/luxmx/lucerna/embedding"
	"github.com/luxmx/lucerna/index"
	"github.com/luxmx/lucerna/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[server] load config: %v", err)
	}

	embedder, err := embedding.NewOpenAIClient(embedding.OpenAIConfig{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("[server] %v", err)
	}

	store, err := index.NewStore(cfg.Database.DSN, cfg.Database.Dimension)
	if err != nil {
		log.Fatalf("[server] open index store: %v", err)
	}
	defer store.Close()

	if cfg.Database.CatalogDSN == "" {
		log.Fatal("[server] catalog DSN not configured")
	}
	source, err := catalog.NewPgSource(cfg.Database.CatalogDSN)
	if err != nil {
		log.Fatalf("[server] open catalog: %v", err)
	}
	defer source.Close()

	srv := server.New(server.Config{
		Source:                source,
		Embedder:              embedder,
		Store:                 store,
		SearchThreshold:       cfg.Search.Threshold,
		SearchLimit:           cfg.Search.Limit,
		IndexerCallsPerSecond: cfg.Indexer.CallsPerSecond,
	})

	log.Printf("[server] listening on %s (model %s)", cfg.Server.Addr, embedder.ModelVersion())
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, srv.Handler()))
}
