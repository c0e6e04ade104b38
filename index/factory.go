package index

import (
	"fmt"
	"strings"
)

// NewStore creates a Store based on the DSN.
//   - Empty DSN: SQLite at data/lucerna.db
//   - postgres:// or postgresql://: PostgreSQL with pgvector
//   - Anything else: SQLite at the specified path
func NewStore(dsn string, dimension int) (Store, error) {
	if dsn == "" {
		return NewSQLiteStore("data/lucerna.db")
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		s, err := NewPgStore(dsn, dimension)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return s, nil
	}
	return NewSQLiteStore(dsn)
}
