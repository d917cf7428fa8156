package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Enthusiasm-c/monito-web-sub006/internal/domain"
)

// maxCandidates bounds every catalog lookup; retrieval escalates through
// strategies, it never needs the whole table.
const maxCandidates = 50

const productColumns = `p.id, p.name, p.standardized_name, p.raw_name, p.unit`

// Store implements domain.CatalogStore and domain.UnmatchedSink on Postgres.
type Store struct {
	db *sql.DB
}

// Connect opens and pings a Postgres connection pool.
func Connect(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return db, nil
}

// NewStore creates a store over an existing connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindByAlias resolves a normalized query through the product_aliases table.
func (s *Store) FindByAlias(ctx context.Context, name string) ([]domain.CatalogProduct, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN product_aliases a ON a.product_id = p.id
		WHERE a.alias = $1
		LIMIT $2`
	return s.queryProducts(ctx, query, name, maxCandidates)
}

// SearchSubstring finds products whose name, standardized name or raw name
// contains the query, case-insensitively.
func (s *Store) SearchSubstring(ctx context.Context, q string) ([]domain.CatalogProduct, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.name ILIKE $1
		   OR p.standardized_name ILIKE $1
		   OR p.raw_name ILIKE $1
		LIMIT $2`
	return s.queryProducts(ctx, query, "%"+q+"%", maxCandidates)
}

// SearchAllWords finds products whose name contains every word.
func (s *Store) SearchAllWords(ctx context.Context, words []string) ([]domain.CatalogProduct, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.name ILIKE ALL($1)
		LIMIT $2`
	return s.queryProducts(ctx, query, pq.Array(likePatterns(words)), maxCandidates)
}

// SearchAnyWord finds products whose name contains at least one word.
func (s *Store) SearchAnyWord(ctx context.Context, words []string) ([]domain.CatalogProduct, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.name ILIKE ANY($1)
		LIMIT $2`
	return s.queryProducts(ctx, query, pq.Array(likePatterns(words)), maxCandidates)
}

// FindByIDs hydrates search-index hits into full products.
func (s *Store) FindByIDs(ctx context.Context, ids []string) ([]domain.CatalogProduct, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE p.id = ANY($1)`
	return s.queryProducts(ctx, query, pq.Array(ids))
}

// Record inserts the query into the unmatched queue for manual triage.
// Fire and forget: failures are logged, never returned.
func (s *Store) Record(ctx context.Context, rawName, normalizedName string, meta map[string]string) {
	payload, err := json.Marshal(meta)
	if err != nil {
		payload = []byte("{}")
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO unmatched_queries (id, raw_name, normalized_name, context, created_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		uuid.NewString(), rawName, normalizedName, payload)
	if err != nil {
		log.Warn().Err(err).Str("raw_name", rawName).Msg("failed to record unmatched query")
	}
}

func (s *Store) queryProducts(ctx context.Context, query string, args ...interface{}) ([]domain.CatalogProduct, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var products []domain.CatalogProduct
	var ids []string
	for rows.Next() {
		var p domain.CatalogProduct
		var standardized, raw, unit sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &standardized, &raw, &unit); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}
		p.StandardizedName = standardized.String
		p.RawName = raw.String
		p.Unit = unit.String
		products = append(products, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	if len(products) == 0 {
		return nil, nil
	}

	if err := s.attachPrices(ctx, products, ids); err != nil {
		return nil, err
	}
	return products, nil
}

// attachPrices loads the price records of the given products in one query.
func (s *Store) attachPrices(ctx context.Context, products []domain.CatalogProduct, ids []string) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, amount, unit, unit_price, supplier_id, supplier_name, created_at, valid_to
		FROM prices
		WHERE product_id = ANY($1)
		ORDER BY created_at DESC`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	byID := make(map[string]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}

	for rows.Next() {
		var productID string
		var r domain.PriceRecord
		var unit, supplierName sql.NullString
		var unitPrice decimal.NullDecimal
		var validTo sql.NullTime
		if err := rows.Scan(&productID, &r.Amount, &unit, &unitPrice,
			&r.SupplierID, &supplierName, &r.CreatedAt, &validTo); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}
		r.Unit = unit.String
		r.SupplierName = supplierName.String
		if unitPrice.Valid {
			v := unitPrice.Decimal
			r.UnitPrice = &v
		}
		if validTo.Valid {
			t := validTo.Time
			r.ValidTo = &t
		}
		if i, ok := byID[productID]; ok {
			products[i].Prices = append(products[i].Prices, r)
		}
	}
	return rows.Err()
}

func likePatterns(words []string) []string {
	patterns := make([]string, 0, len(words))
	for _, w := range words {
		patterns = append(patterns, "%"+w+"%")
	}
	return patterns
}
