package index

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for development and testing. Entries
// keep insertion order, which gives searches a stable tie-break.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Scope][]Entry
	pos     map[Scope]map[Key]int
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[Scope][]Entry),
		pos:     make(map[Scope]map[Key]int),
	}
}

// Upsert inserts or replaces the entry for its key tuple.
func (s *MemoryStore) Upsert(ctx context.Context, e Entry) error {
	if _, err := e.Key.Level(); err != nil {
		return storageErr("upsert", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scope := e.Key.Scope()
	if s.pos[scope] == nil {
		s.pos[scope] = make(map[Key]int)
	}
	if i, ok := s.pos[scope][e.Key]; ok {
		s.entries[scope][i] = e
		return nil
	}
	s.pos[scope][e.Key] = len(s.entries[scope])
	s.entries[scope] = append(s.entries[scope], e)
	return nil
}

// SearchNearest scans the scoped entries with brute-force cosine
// similarity.
func (s *MemoryStore) SearchNearest(ctx context.Context, q Query) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []Match
	for _, e := range s.entries[q.Scope] {
		if e.ModelVersion != q.ModelVersion || len(e.Embedding) == 0 {
			continue
		}
		score := CosineSimilarity(q.Embedding, e.Embedding)
		if score >= q.Threshold {
			matches = append(matches, Match{Entry: e, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
