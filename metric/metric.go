// Package metric exposes prometheus instrumentation for the indexing and
// search pipeline.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	// EmbeddingsWritten counts index rows written, labeled by entity level.
	EmbeddingsWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lucerna",
		Name:      "embeddings_written_total",
		Help:      "Index rows written, by entity level.",
	}, []string{"level"})

	// IndexErrors counts entities skipped by the batch indexer.
	IndexErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lucerna",
		Name:      "index_errors_total",
		Help:      "Entities that failed during batch indexing.",
	})

	// SearchesServed counts similarity searches, labeled by scope.
	SearchesServed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lucerna",
		Name:      "searches_total",
		Help:      "Similarity searches served, by scope.",
	}, []string{"scope"})

	// SearchDuration observes end-to-end search latency in seconds.
	SearchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lucerna",
		Name:      "search_duration_seconds",
		Help:      "End-to-end search latency.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	registry.MustRegister(EmbeddingsWritten, IndexErrors, SearchesServed, SearchDuration)
}

// Handler serves the registry in prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
