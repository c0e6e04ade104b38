// Package catalog provides read-only access to the lighting-products catalog.
package catalog

import "context"

// Category groups products (e.g. "Lámparas", "Plafones").
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Finish is a surface finish a product or accessory is available in.
type Finish struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LightTone is a color temperature option. Kelvin is 0 when unknown.
type LightTone struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Kelvin int    `json:"kelvin,omitempty"`
}

// Configuration is a sellable combination under a variant: one SKU with
// its electrical and physical characteristics. Voltage and the dimensions
// are optional; wattage and lumens are always present.
type Configuration struct {
	ID         int64  `json:"id"`
	SKU        string `json:"sku"`
	Watts      int    `json:"watts"`
	Lumens     int    `json:"lumens"`
	Voltage    string `json:"voltage,omitempty"`
	DiameterMM int    `json:"diameter_mm,omitempty"`
	LengthMM   int    `json:"length_mm,omitempty"`
	WidthMM    int    `json:"width_mm,omitempty"`
}

// Variant is a named variation of a product carrying its own code,
// included components and available light tones.
type Variant struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Code           string          `json:"code"`
	IncludesLED    bool            `json:"includes_led"`
	IncludesDriver bool            `json:"includes_driver"`
	LightTones     []LightTone     `json:"light_tones,omitempty"`
	Configurations []Configuration `json:"configurations,omitempty"`
}

// Product is the top of the catalog hierarchy.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Finishes    []Finish  `json:"finishes,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
}

// Accessory is a standalone catalog item, unrelated to the product hierarchy.
type Accessory struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Code        string      `json:"code"`
	Description string      `json:"description,omitempty"`
	Watts       int         `json:"watts,omitempty"`
	Voltage     string      `json:"voltage,omitempty"`
	LightTones  []LightTone `json:"light_tones,omitempty"`
	Finishes    []Finish    `json:"finishes,omitempty"`
}

// Source yields the fully-joined catalog view consumed by the indexer.
// Products come with category, finishes, variants, variant light tones and
// variant configurations already attached; accessories with their light
// tones and finishes.
type Source interface {
	Products(ctx context.Context) ([]Product, error)
	Accessories(ctx context.Context) ([]Accessory, error)
}

// StaticSource is a Source over in-memory data, for tests and fixtures.
type StaticSource struct {
	ProductList   []Product
	AccessoryList []Accessory
}

// Products returns the static product list.
func (s *StaticSource) Products(ctx context.Context) ([]Product, error) {
	return s.ProductList, nil
}

// Accessories returns the static accessory list.
func (s *StaticSource) Accessories(ctx context.Context) ([]Accessory, error) {
	return s.AccessoryList, nil
}
