package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PgSource loads the joined catalog view from the relational schema owned
// by the CRUD application. All queries are read-only.
type PgSource struct {
	db *sql.DB
}

// NewPgSource opens a connection to the catalog database.
func NewPgSource(dsn string) (*PgSource, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PgSource{db: db}, nil
}

// Close closes the database connection.
func (s *PgSource) Close() error {
	return s.db.Close()
}

// Products loads every product with its category, finishes, variants,
// variant light tones and variant configurations.
func (s *PgSource) Products(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.code, COALESCE(p.description, ''),
		       c.id, c.name
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	byID := make(map[int64]int)
	for rows.Next() {
		var p Product
		var catID sql.NullInt64
		var catName sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Code, &p.Description, &catID, &catName); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if catID.Valid {
			p.Category = &Category{ID: catID.Int64, Name: catName.String}
		}
		byID[p.ID] = len(products)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	if err := s.loadProductFinishes(ctx, products, byID); err != nil {
		return nil, err
	}

	variantIdx, err := s.loadVariants(ctx, products, byID)
	if err != nil {
		return nil, err
	}
	if err := s.loadVariantTones(ctx, products, variantIdx); err != nil {
		return nil, err
	}
	if err := s.loadConfigurations(ctx, products, variantIdx); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *PgSource) loadProductFinishes(ctx context.Context, products []Product, byID map[int64]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pf.product_id, f.id, f.name
		FROM product_finishes pf
		JOIN finishes f ON f.id = pf.finish_id
		ORDER BY pf.product_id, f.id`)
	if err != nil {
		return fmt.Errorf("query product finishes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var f Finish
		if err := rows.Scan(&productID, &f.ID, &f.Name); err != nil {
			return fmt.Errorf("scan finish: %w", err)
		}
		if i, ok := byID[productID]; ok {
			products[i].Finishes = append(products[i].Finishes, f)
		}
	}
	return rows.Err()
}

// loadVariants attaches variants to their products and returns a lookup
// from variant id to (product index, variant index).
func (s *PgSource) loadVariants(ctx context.Context, products []Product, byID map[int64]int) (map[int64][2]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.product_id, v.name, v.code, v.includes_led, v.includes_driver
		FROM variants v
		ORDER BY v.product_id, v.id`)
	if err != nil {
		return nil, fmt.Errorf("query variants: %w", err)
	}
	defer rows.Close()

	variantIdx := make(map[int64][2]int)
	for rows.Next() {
		var v Variant
		var productID int64
		if err := rows.Scan(&v.ID, &productID, &v.Name, &v.Code, &v.IncludesLED, &v.IncludesDriver); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		i, ok := byID[productID]
		if !ok {
			continue
		}
		variantIdx[v.ID] = [2]int{i, len(products[i].Variants)}
		products[i].Variants = append(products[i].Variants, v)
	}
	return variantIdx, rows.Err()
}

func (s *PgSource) loadVariantTones(ctx context.Context, products []Product, variantIdx map[int64][2]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT vt.variant_id, t.id, t.name, COALESCE(t.kelvin, 0)
		FROM variant_light_tones vt
		JOIN light_tones t ON t.id = vt.light_tone_id
		ORDER BY vt.variant_id, t.id`)
	if err != nil {
		return fmt.Errorf("query variant light tones: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var variantID int64
		var t LightTone
		if err := rows.Scan(&variantID, &t.ID, &t.Name, &t.Kelvin); err != nil {
			return fmt.Errorf("scan light tone: %w", err)
		}
		if pos, ok := variantIdx[variantID]; ok {
			v := &products[pos[0]].Variants[pos[1]]
			v.LightTones = append(v.LightTones, t)
		}
	}
	return rows.Err()
}

func (s *PgSource) loadConfigurations(ctx context.Context, products []Product, variantIdx map[int64][2]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.variant_id, c.sku, c.watts, c.lumens,
		       COALESCE(c.voltage, ''), COALESCE(c.diameter_mm, 0),
		       COALESCE(c.length_mm, 0), COALESCE(c.width_mm, 0)
		FROM configurations c
		ORDER BY c.variant_id, c.id`)
	if err != nil {
		return fmt.Errorf("query configurations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Configuration
		var variantID int64
		if err := rows.Scan(&c.ID, &variantID, &c.SKU, &c.Watts, &c.Lumens,
			&c.Voltage, &c.DiameterMM, &c.LengthMM, &c.WidthMM); err != nil {
			return fmt.Errorf("scan configuration: %w", err)
		}
		if pos, ok := variantIdx[variantID]; ok {
			v := &products[pos[0]].Variants[pos[1]]
			v.Configurations = append(v.Configurations, c)
		}
	}
	return rows.Err()
}

// Accessories loads every accessory with its compatible light tones and
// finishes.
func (s *PgSource) Accessories(ctx context.Context) ([]Accessory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, a.code, COALESCE(a.description, ''),
		       COALESCE(a.watts, 0), COALESCE(a.voltage, '')
		FROM accessories a
		ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("query accessories: %w", err)
	}
	defer rows.Close()

	var accessories []Accessory
	byID := make(map[int64]int)
	for rows.Next() {
		var a Accessory
		if err := rows.Scan(&a.ID, &a.Name, &a.Code, &a.Description, &a.Watts, &a.Voltage); err != nil {
			return nil, fmt.Errorf("scan accessory: %w", err)
		}
		byID[a.ID] = len(accessories)
		accessories = append(accessories, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accessories: %w", err)
	}

	toneRows, err := s.db.QueryContext(ctx, `
		SELECT at.accessory_id, t.id, t.name, COALESCE(t.kelvin, 0)
		FROM accessory_light_tones at
		JOIN light_tones t ON t.id = at.light_tone_id
		ORDER BY at.accessory_id, t.id`)
	if err != nil {
		return nil, fmt.Errorf("query accessory light tones: %w", err)
	}
	defer toneRows.Close()
	for toneRows.Next() {
		var accessoryID int64
		var t LightTone
		if err := toneRows.Scan(&accessoryID, &t.ID, &t.Name, &t.Kelvin); err != nil {
			return nil, fmt.Errorf("scan accessory light tone: %w", err)
		}
		if i, ok := byID[accessoryID]; ok {
			accessories[i].LightTones = append(accessories[i].LightTones, t)
		}
	}
	if err := toneRows.Err(); err != nil {
		return nil, err
	}

	finishRows, err := s.db.QueryContext(ctx, `
		SELECT af.accessory_id, f.id, f.name
		FROM accessory_finishes af
		JOIN finishes f ON f.id = af.finish_id
		ORDER BY af.accessory_id, f.id`)
	if err != nil {
		return nil, fmt.Errorf("query accessory finishes: %w", err)
	}
	defer finishRows.Close()
	for finishRows.Next() {
		var accessoryID int64
		var f Finish
		if err := finishRows.Scan(&accessoryID, &f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("scan accessory finish: %w", err)
		}
		if i, ok := byID[accessoryID]; ok {
			accessories[i].Finishes = append(accessories[i].Finishes, f)
		}
	}
	return accessories, finishRows.Err()
}
