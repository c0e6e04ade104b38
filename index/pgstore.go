package index

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"
)

// PgStore is a PostgreSQL-backed Store using pgvector. The product
// hierarchy and the accessory collection live in separate tables.
type PgStore struct {
	db        *sql.DB
	dimension int
}

// NewPgStore opens the database, ensures the vector extension and both
// index tables exist, and returns the store. The dimension parameter is
// the embedding dimension of the model in use (e.g. 1536).
func NewPgStore(dsn string, dimension int) (*PgStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &PgStore{db: db, dimension: dimension}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func (s *PgStore) migrate() error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS product_index (
			product_id BIGINT NOT NULL,
			variant_id BIGINT NOT NULL DEFAULT 0,
			configuration_id BIGINT NOT NULL DEFAULT 0,
			level TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			model_version TEXT NOT NULL,
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (product_id, variant_id, configuration_id)
		)`, s.dimension),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS accessory_index (
			accessory_id BIGINT PRIMARY KEY,
			level TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			model_version TEXT NOT NULL,
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`, s.dimension),
		`CREATE INDEX IF NOT EXISTS idx_product_index_embedding
			ON product_index USING hnsw (embedding vector_cosine_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_accessory_index_embedding
			ON accessory_index USING hnsw (embedding vector_cosine_ops)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}

// Upsert inserts or replaces the entry for its key tuple in one statement.
func (s *PgStore) Upsert(ctx context.Context, e Entry) error {
	level, err := e.Key.Level()
	if err != nil {
		return storageErr("upsert", err)
	}
	vec := pgvector.NewVector(e.Embedding)

	if e.Key.Scope() == ScopeAccessories {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO accessory_index (accessory_id, level, content, embedding, model_version, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (accessory_id) DO UPDATE SET
				content = EXCLUDED.content,
				embedding = EXCLUDED.embedding,
				model_version = EXCLUDED.model_version,
				updated_at = NOW()
		`, e.Key.AccessoryID, string(level), e.Content, vec, e.ModelVersion)
	} else {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO product_index (product_id, variant_id, configuration_id, level, content, embedding, model_version, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (product_id, variant_id, configuration_id) DO UPDATE SET
				level = EXCLUDED.level,
				content = EXCLUDED.content,
				embedding = EXCLUDED.embedding,
				model_version = EXCLUDED.model_version,
				updated_at = NOW()
		`, e.Key.ProductID, e.Key.VariantID, e.Key.ConfigurationID, string(level), e.Content, vec, e.ModelVersion)
	}
	if err != nil {
		return storageErr("upsert", err)
	}
	return nil
}

// SearchNearest delegates similarity ordering and threshold filtering to
// pgvector's cosine distance operator. Result entries carry keys and
// content but not the stored vector.
func (s *PgStore) SearchNearest(ctx context.Context, q Query) ([]Match, error) {
	vec := pgvector.NewVector(q.Embedding)

	// LIMIT NULL means no limit in Postgres.
	var limit any
	if q.Limit > 0 {
		limit = q.Limit
	}

	if q.Scope == ScopeAccessories {
		rows, err := s.db.QueryContext(ctx, `
			SELECT accessory_id, level, content, model_version,
			       1 - (embedding <=> $1) AS score
			FROM accessory_index
			WHERE model_version = $2 AND 1 - (embedding <=> $1) >= $3
			ORDER BY embedding <=> $1
			LIMIT $4
		`, vec, q.ModelVersion, q.Threshold, limit)
		if err != nil {
			return nil, storageErr("search", err)
		}
		defer rows.Close()

		var matches []Match
		for rows.Next() {
			var m Match
			if err := rows.Scan(&m.Entry.Key.AccessoryID, &m.Entry.Level,
				&m.Entry.Content, &m.Entry.ModelVersion, &m.Score); err != nil {
				return nil, storageErr("search", err)
			}
			matches = append(matches, m)
		}
		if err := rows.Err(); err != nil {
			return nil, storageErr("search", err)
		}
		return matches, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, variant_id, configuration_id, level, content, model_version,
		       1 - (embedding <=> $1) AS score
		FROM product_index
		WHERE model_version = $2 AND 1 - (embedding <=> $1) >= $3
		ORDER BY embedding <=> $1
		LIMIT $4
	`, vec, q.ModelVersion, q.Threshold, limit)
	if err != nil {
		return nil, storageErr("search", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.Entry.Key.ProductID, &m.Entry.Key.VariantID,
			&m.Entry.Key.ConfigurationID, &m.Entry.Level, &m.Entry.Content,
			&m.Entry.ModelVersion, &m.Score); err != nil {
			return nil, storageErr("search", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("search", err)
	}
	return matches, nil
}

// Close closes the database connection.
func (s *PgStore) Close() error {
	return s.db.Close()
}
