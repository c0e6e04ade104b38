// Package indexer rebuilds the embedding index by walking the whole
// catalog.
package indexer

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/time/rate"

	"github.com/luxmx/lucerna/catalog"
	"github.com/luxmx/lucerna/embedding"
	"github.com/luxmx/lucerna/index"
	"github.com/luxmx/lucerna/metric"
	"github.com/luxmx/lucerna/synth"
)

// Config configures a batch run.
type Config struct {
	Source   catalog.Source
	Embedder embedding.Client
	Store    index.Store

	// CallsPerSecond paces consecutive embedding calls to stay under the
	// provider's rate limits. Zero means 2 calls per second.
	CallsPerSecond float64
}

// Summary reports the outcome of one batch run. The run finishes even
// when individual entities fail; Errors counts the entities skipped.
type Summary struct {
	Products       int    `json:"products"`
	Variants       int    `json:"variants"`
	Configurations int    `json:"configurations"`
	Accessories    int    `json:"accessories"`
	Embeddings     int    `json:"embeddings"`
	Errors         int    `json:"errors"`
	ModelVersion   string `json:"model_version"`
}

// Indexer walks the product hierarchy and the accessory collection,
// synthesizing, embedding and upserting one entity at a time.
type Indexer struct {
	source   catalog.Source
	embedder embedding.Client
	store    index.Store
	limiter  *rate.Limiter
}

// New creates an Indexer.
func New(cfg Config) *Indexer {
	cps := cfg.CallsPerSecond
	if cps <= 0 {
		cps = 2
	}
	return &Indexer{
		source:   cfg.Source,
		embedder: cfg.Embedder,
		store:    cfg.Store,
		limiter:  rate.NewLimiter(rate.Limit(cps), 1),
	}
}

// Run rebuilds the whole index sequentially. Loading the catalog or a
// cancelled context aborts the run; a failure on one entity is logged,
// counted and skipped.
func (ix *Indexer) Run(ctx context.Context) (Summary, error) {
	summary := Summary{ModelVersion: ix.embedder.ModelVersion()}

	products, err := ix.source.Products(ctx)
	if err != nil {
		return summary, fmt.Errorf("load products: %w", err)
	}

	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := ix.indexOne(ctx, synth.Product(p), index.Key{ProductID: p.ID}); err != nil {
			ix.skip(&summary, err, "product %q (id %d)", p.Name, p.ID)
		} else {
			summary.Products++
			summary.Embeddings++
			log.Printf("[indexer] indexed product %q", p.Name)
		}

		for _, v := range p.Variants {
			key := index.Key{ProductID: p.ID, VariantID: v.ID}
			if err := ix.indexOne(ctx, synth.Variant(p, v), key); err != nil {
				ix.skip(&summary, err, "variant %q (id %d)", v.Name, v.ID)
			} else {
				summary.Variants++
				summary.Embeddings++
				log.Printf("[indexer] indexed variant %q of %q", v.Name, p.Name)
			}

			for _, c := range v.Configurations {
				key := index.Key{ProductID: p.ID, VariantID: v.ID, ConfigurationID: c.ID}
				if err := ix.indexOne(ctx, synth.Configuration(p, v, c), key); err != nil {
					ix.skip(&summary, err, "configuration %q (id %d)", c.SKU, c.ID)
				} else {
					summary.Configurations++
					summary.Embeddings++
					log.Printf("[indexer] indexed configuration %q", c.SKU)
				}
			}
		}
	}

	accessories, err := ix.source.Accessories(ctx)
	if err != nil {
		return summary, fmt.Errorf("load accessories: %w", err)
	}
	for _, a := range accessories {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := ix.indexOne(ctx, synth.Accessory(a), index.Key{AccessoryID: a.ID}); err != nil {
			ix.skip(&summary, err, "accessory %q (id %d)", a.Name, a.ID)
		} else {
			summary.Accessories++
			summary.Embeddings++
			log.Printf("[indexer] indexed accessory %q", a.Name)
		}
	}

	return summary, nil
}

// indexOne is the per-entity unit of work: pace, embed, upsert. A failure
// leaves any previous row for the key untouched.
func (ix *Indexer) indexOne(ctx context.Context, content string, key index.Key) error {
	if err := ix.limiter.Wait(ctx); err != nil {
		return err
	}

	vec, err := ix.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	level, err := key.Level()
	if err != nil {
		return err
	}
	entry := index.Entry{
		Level:        level,
		Key:          key,
		Content:      content,
		Embedding:    vec,
		ModelVersion: ix.embedder.ModelVersion(),
	}
	if err := ix.store.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	metric.EmbeddingsWritten.WithLabelValues(string(level)).Inc()
	return nil
}

func (ix *Indexer) skip(summary *Summary, err error, format string, args ...any) {
	summary.Errors++
	metric.IndexErrors.Inc()
	log.Printf("[indexer] skipping "+format+": %v", append(args, err)...)
}
