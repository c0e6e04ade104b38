package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a local-file Store for development runs without a
// vector-capable database. Vectors are stored JSON-encoded and similarity
// is computed in process over the scoped rows.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database file and its
// tables.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS product_index (
			product_id INTEGER NOT NULL,
			variant_id INTEGER NOT NULL DEFAULT 0,
			configuration_id INTEGER NOT NULL DEFAULT 0,
			level TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding TEXT NOT NULL,
			model_version TEXT NOT NULL,
			PRIMARY KEY (product_id, variant_id, configuration_id)
		)`,
		`CREATE TABLE IF NOT EXISTS accessory_index (
			accessory_id INTEGER PRIMARY KEY,
			level TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding TEXT NOT NULL,
			model_version TEXT NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}

// Upsert inserts or replaces the entry for its key tuple.
func (s *SQLiteStore) Upsert(ctx context.Context, e Entry) error {
	level, err := e.Key.Level()
	if err != nil {
		return storageErr("upsert", err)
	}
	vec, err := json.Marshal(e.Embedding)
	if err != nil {
		return storageErr("upsert", err)
	}

	if e.Key.Scope() == ScopeAccessories {
		_, err = s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO accessory_index
				(accessory_id, level, content, embedding, model_version)
			VALUES (?, ?, ?, ?, ?)`,
			e.Key.AccessoryID, string(level), e.Content, string(vec), e.ModelVersion)
	} else {
		_, err = s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO product_index
				(product_id, variant_id, configuration_id, level, content, embedding, model_version)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.Key.ProductID, e.Key.VariantID, e.Key.ConfigurationID,
			string(level), e.Content, string(vec), e.ModelVersion)
	}
	if err != nil {
		return storageErr("upsert", err)
	}
	return nil
}

// SearchNearest loads the scoped rows for the query's model version and
// scores them in process.
func (s *SQLiteStore) SearchNearest(ctx context.Context, q Query) ([]Match, error) {
	var rows *sql.Rows
	var err error
	if q.Scope == ScopeAccessories {
		rows, err = s.db.QueryContext(ctx, `
			SELECT accessory_id, 0, 0, 0, level, content, embedding, model_version
			FROM accessory_index WHERE model_version = ?
			ORDER BY rowid`, q.ModelVersion)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT 0, product_id, variant_id, configuration_id, level, content, embedding, model_version
			FROM product_index WHERE model_version = ?
			ORDER BY rowid`, q.ModelVersion)
	}
	if err != nil {
		return nil, storageErr("search", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var e Entry
		var vecJSON string
		if err := rows.Scan(&e.Key.AccessoryID, &e.Key.ProductID, &e.Key.VariantID,
			&e.Key.ConfigurationID, &e.Level, &e.Content, &vecJSON, &e.ModelVersion); err != nil {
			return nil, storageErr("search", err)
		}
		if err := json.Unmarshal([]byte(vecJSON), &e.Embedding); err != nil {
			return nil, storageErr("search", err)
		}
		score := CosineSimilarity(q.Embedding, e.Embedding)
		if score >= q.Threshold {
			e.Embedding = nil
			matches = append(matches, Match{Entry: e, Score: score})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("search", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

// Close closes the database file.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
