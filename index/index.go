// Package index provides durable storage and similarity search for
// catalog embeddings.
package index

import (
	"context"
	"errors"
	"fmt"
)

// Level discriminates the hierarchy node an entry was synthesized from.
type Level string

const (
	LevelProduct       Level = "product"
	LevelVariant       Level = "variant"
	LevelConfiguration Level = "configuration"
	LevelAccessory     Level = "accessory"
)

// Scope selects which of the two indexes a call addresses. The product
// hierarchy and the accessory collection have different keys and domains
// and are never searched together.
type Scope string

const (
	ScopeProducts    Scope = "products"
	ScopeAccessories Scope = "accessories"
)

// ParseScope validates a scope string, defaulting empty to ScopeProducts.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "":
		return ScopeProducts, nil
	case ScopeProducts, ScopeAccessories:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown scope %q", s)
}

// Key identifies an indexed entity. A zero id means the key component is
// absent; the populated set determines the level unambiguously.
type Key struct {
	ProductID       int64 `json:"product_id,omitempty"`
	VariantID       int64 `json:"variant_id,omitempty"`
	ConfigurationID int64 `json:"configuration_id,omitempty"`
	AccessoryID     int64 `json:"accessory_id,omitempty"`
}

// Level derives the entry level from the populated key components.
func (k Key) Level() (Level, error) {
	switch {
	case k.AccessoryID != 0:
		if k.ProductID != 0 || k.VariantID != 0 || k.ConfigurationID != 0 {
			return "", errors.New("accessory key must not carry product hierarchy ids")
		}
		return LevelAccessory, nil
	case k.ConfigurationID != 0:
		if k.ProductID == 0 || k.VariantID == 0 {
			return "", errors.New("configuration key requires product and variant ids")
		}
		return LevelConfiguration, nil
	case k.VariantID != 0:
		if k.ProductID == 0 {
			return "", errors.New("variant key requires a product id")
		}
		return LevelVariant, nil
	case k.ProductID != 0:
		return LevelProduct, nil
	}
	return "", errors.New("empty key")
}

// Scope returns the index the key belongs to.
func (k Key) Scope() Scope {
	if k.AccessoryID != 0 {
		return ScopeAccessories
	}
	return ScopeProducts
}

// Entry is one indexed row: the synthesized content, its vector and the
// model that produced it.
type Entry struct {
	Level        Level     `json:"level"`
	Key          Key       `json:"key"`
	Content      string    `json:"content"`
	Embedding    []float32 `json:"embedding,omitempty"`
	ModelVersion string    `json:"model_version"`
}

// Match is a search hit with its cosine similarity score.
type Match struct {
	Entry Entry   `json:"entry"`
	Score float64 `json:"score"`
}

// Query describes one nearest-neighbor search. Only rows written by
// ModelVersion are considered; vectors from other models are not
// comparable and are never scored. A Limit of zero or less means no
// limit.
type Query struct {
	Scope        Scope
	Embedding    []float32
	ModelVersion string
	Threshold    float64
	Limit        int
}

// Store persists entries and answers similarity queries.
type Store interface {
	// Upsert inserts or replaces the entry matching the same key tuple.
	// The write is atomic: no partial row is ever visible.
	Upsert(ctx context.Context, e Entry) error

	// SearchNearest returns up to q.Limit entries whose similarity to
	// q.Embedding meets q.Threshold, ordered by descending similarity.
	SearchNearest(ctx context.Context, q Query) ([]Match, error)

	// Close releases resources.
	Close() error
}

// StorageError reports a failed store operation. It is not retried
// internally.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
