// Package server exposes the search and reindex surface over HTTP.
package server

import (
	"net/http"

	"github.com/luxmx/lucerna/catalog"
	"github.com/luxmx/lucerna/embedding"
	"github.com/luxmx/lucerna/index"
	"github.com/luxmx/lucerna/indexer"
	"github.com/luxmx/lucerna/metric"
	"github.com/luxmx/lucerna/search"
)

// Config configures a new Server instance.
type Config struct {
	Source   catalog.Source
	Embedder embedding.Client
	Store    index.Store

	// SearchThreshold and SearchLimit default to the search package
	// defaults when zero.
	SearchThreshold float64
	SearchLimit     int

	// IndexerCallsPerSecond paces the reindex endpoint's batch run.
	IndexerCallsPerSecond float64
}

// Server is the HTTP API over the query service and the batch indexer.
type Server struct {
	searcher *search.Service
	indexer  *indexer.Indexer
}

// New creates a Server with the given configuration.
func New(cfg Config) *Server {
	return &Server{
		searcher: search.New(search.Config{
			Embedder:  cfg.Embedder,
			Store:     cfg.Store,
			Threshold: cfg.SearchThreshold,
			Limit:     cfg.SearchLimit,
		}),
		indexer: indexer.New(indexer.Config{
			Source:         cfg.Source,
			Embedder:       cfg.Embedder,
			Store:          cfg.Store,
			CallsPerSecond: cfg.IndexerCallsPerSecond,
		}),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/reindex", s.handleReindex)
	mux.Handle("GET /metrics", metric.Handler())

	return mux
}
