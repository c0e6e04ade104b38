package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxmx/lucerna/embedding"
	"github.com/luxmx/lucerna/index"
)

type stubEmbedder struct {
	vec []float32
	err error
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vec, nil
}

func (e *stubEmbedder) ModelVersion() string {
	return "stub-model"
}

func seedStore(t *testing.T) *index.MemoryStore {
	t.Helper()
	store := index.NewMemoryStore()
	ctx := context.Background()

	entries := []index.Entry{
		{Level: index.LevelProduct, Key: index.Key{ProductID: 1}, Content: "lámpara de buro", Embedding: []float32{1, 0}, ModelVersion: "stub-model"},
		{Level: index.LevelVariant, Key: index.Key{ProductID: 1, VariantID: 2}, Content: "dirigible", Embedding: []float32{0.95, 0.05}, ModelVersion: "stub-model"},
		{Level: index.LevelProduct, Key: index.Key{ProductID: 3}, Content: "riel", Embedding: []float32{0, 1}, ModelVersion: "stub-model"},
	}
	for _, e := range entries {
		require.NoError(t, store.Upsert(ctx, e))
	}
	return store
}

func TestSearchReturnsRankedMatches(t *testing.T) {
	svc := New(Config{
		Embedder: &stubEmbedder{vec: []float32{1, 0}},
		Store:    seedStore(t),
	})

	matches, err := svc.Search(context.Background(), index.ScopeProducts, "lámpara para escritorio", 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "lámpara de buro", matches[0].Entry.Content)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	svc := New(Config{
		Embedder: &stubEmbedder{vec: []float32{0, -1}},
		Store:    seedStore(t),
	})

	matches, err := svc.Search(context.Background(), index.ScopeProducts, "nada parecido", 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchRespectsLimit(t *testing.T) {
	svc := New(Config{
		Embedder:  &stubEmbedder{vec: []float32{1, 0}},
		Store:     seedStore(t),
		Threshold: 0.5,
	})

	matches, err := svc.Search(context.Background(), index.ScopeProducts, "lámpara", 1)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSearchPropagatesEmbedderError(t *testing.T) {
	svcErr := &embedding.ServiceError{Status: 429, Message: "rate limit"}
	svc := New(Config{
		Embedder: &stubEmbedder{err: svcErr},
		Store:    seedStore(t),
	})

	_, err := svc.Search(context.Background(), index.ScopeProducts, "lámpara", 0)
	var got *embedding.ServiceError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 429, got.Status)
}
