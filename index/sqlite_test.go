package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreUpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)
	key := Key{ProductID: 1, VariantID: 2, ConfigurationID: 3}

	require.NoError(t, store.Upsert(ctx, Entry{
		Level: LevelConfiguration, Key: key, Content: "old",
		Embedding: []float32{1, 0, 0}, ModelVersion: "m1",
	}))
	require.NoError(t, store.Upsert(ctx, Entry{
		Level: LevelConfiguration, Key: key, Content: "new",
		Embedding: []float32{1, 0, 0}, ModelVersion: "m1",
	}))

	matches, err := store.SearchNearest(ctx, Query{
		Scope: ScopeProducts, Embedding: []float32{1, 0, 0},
		ModelVersion: "m1", Threshold: 0.5, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "new", matches[0].Entry.Content)
	assert.Equal(t, key, matches[0].Entry.Key)
}

func TestSQLiteStoreThresholdAndOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	entries := []Entry{
		{Level: LevelProduct, Key: Key{ProductID: 1}, Content: "exact", Embedding: []float32{1, 0}, ModelVersion: "m1"},
		{Level: LevelProduct, Key: Key{ProductID: 2}, Content: "close", Embedding: []float32{0.9, 0.1}, ModelVersion: "m1"},
		{Level: LevelProduct, Key: Key{ProductID: 3}, Content: "far", Embedding: []float32{0, 1}, ModelVersion: "m1"},
	}
	for _, e := range entries {
		require.NoError(t, store.Upsert(ctx, e))
	}

	matches, err := store.SearchNearest(ctx, Query{
		Scope: ScopeProducts, Embedding: []float32{1, 0},
		ModelVersion: "m1", Threshold: 0.7, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "exact", matches[0].Entry.Content)
	assert.Equal(t, "close", matches[1].Entry.Content)
}

func TestSQLiteStoreScopeSeparation(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)
	vec := []float32{1, 0}

	require.NoError(t, store.Upsert(ctx, Entry{
		Level: LevelProduct, Key: Key{ProductID: 1}, Content: "p",
		Embedding: vec, ModelVersion: "m1",
	}))
	require.NoError(t, store.Upsert(ctx, Entry{
		Level: LevelAccessory, Key: Key{AccessoryID: 7}, Content: "a",
		Embedding: vec, ModelVersion: "m1",
	}))

	accessories, err := store.SearchNearest(ctx, Query{
		Scope: ScopeAccessories, Embedding: vec, ModelVersion: "m1", Threshold: 0.5, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, accessories, 1)
	assert.Equal(t, int64(7), accessories[0].Entry.Key.AccessoryID)
	assert.Zero(t, accessories[0].Entry.Key.ProductID)
}

func TestSQLiteStoreModelVersionFilter(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)
	vec := []float32{1, 0}

	require.NoError(t, store.Upsert(ctx, Entry{
		Level: LevelProduct, Key: Key{ProductID: 1}, Content: "p",
		Embedding: vec, ModelVersion: "m1",
	}))

	matches, err := store.SearchNearest(ctx, Query{
		Scope: ScopeProducts, Embedding: vec, ModelVersion: "m2", Threshold: 0.5, Limit: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestNewStoreDispatch(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "local.db"), 3)
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*SQLiteStore)
	assert.True(t, ok)
}
