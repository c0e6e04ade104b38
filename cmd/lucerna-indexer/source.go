package main

import (
	"errors"

	"github.com/luxmx/lucerna/catalog"
	"github.com/luxmx/lucerna/config"
)

// newSource opens the read-only catalog view. The catalog lives in the
// relational database owned by the admin application, so a Postgres DSN
// is required.
func newSource(cfg *config.AppConfig) (catalog.Source, error) {
	if cfg.Database.CatalogDSN == "" {
		return nil, errors.New("catalog DSN not configured")
	}
	return catalog.NewPgSource(cfg.Database.CatalogDSN)
}
