// Package search answers free-text queries against the embedding index.
package search

import (
	"context"
	"time"

	"github.com/luxmx/lucerna/embedding"
	"github.com/luxmx/lucerna/index"
	"github.com/luxmx/lucerna/metric"
)

const (
	// DefaultThreshold is the minimum cosine similarity a hit must reach.
	DefaultThreshold = 0.7

	// DefaultLimit caps results when the caller does not specify one.
	DefaultLimit = 10
)

// Config configures a search Service. Zero values fall back to the
// defaults above.
type Config struct {
	Embedder  embedding.Client
	Store     index.Store
	Threshold float64
	Limit     int
}

// Service embeds queries and performs threshold-filtered nearest-neighbor
// lookups. Each call issues exactly one embedding call and one store
// query; errors from either surface unchanged.
type Service struct {
	embedder  embedding.Client
	store     index.Store
	threshold float64
	limit     int
}

// New creates a Service.
func New(cfg Config) *Service {
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		embedder:  cfg.Embedder,
		store:     cfg.Store,
		threshold: threshold,
		limit:     limit,
	}
}

// Search returns up to limit matches for the query in the given scope,
// ordered by descending similarity. An empty result is nil, not an error.
func (s *Service) Search(ctx context.Context, scope index.Scope, query string, limit int) ([]index.Match, error) {
	start := time.Now()
	if limit <= 0 {
		limit = s.limit
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := s.store.SearchNearest(ctx, index.Query{
		Scope:        scope,
		Embedding:    vec,
		ModelVersion: s.embedder.ModelVersion(),
		Threshold:    s.threshold,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}

	metric.SearchesServed.WithLabelValues(string(scope)).Inc()
	metric.SearchDuration.Observe(time.Since(start).Seconds())
	return matches, nil
}
