package domain

import "context"

// CatalogStore defines the lookups the retrieval pipeline needs from the
// catalog backend. Every method returns products with their active price
// records attached.
type CatalogStore interface {
	// FindByAlias resolves an exact alias on the normalized query.
	FindByAlias(ctx context.Context, normalized string) ([]CatalogProduct, error)
	// SearchSubstring matches the query as a case-insensitive substring of
	// name, standardized name or raw name.
	SearchSubstring(ctx context.Context, query string) ([]CatalogProduct, error)
	// SearchAllWords matches products containing every given word.
	SearchAllWords(ctx context.Context, words []string) ([]CatalogProduct, error)
	// SearchAnyWord matches products containing at least one of the words.
	SearchAnyWord(ctx context.Context, words []string) ([]CatalogProduct, error)
	// FindByIDs resolves search-index hits back to full products.
	FindByIDs(ctx context.Context, ids []string) ([]CatalogProduct, error)
}

// SearchIndex is the full-text search collaborator (typo tolerant).
type SearchIndex interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// Standardizer is the AI name-standardization collaborator. Best effort: it
// may fail or time out, and callers must degrade gracefully.
type Standardizer interface {
	Standardize(ctx context.Context, name, unit string, quantity, price float64) (*StandardizationResult, error)
}

// UnmatchedSink records queries no strategy could match, for manual triage.
// Fire and forget: implementations log failures and never return them to the
// comparison pipeline.
type UnmatchedSink interface {
	Record(ctx context.Context, rawName, normalizedName string, context map[string]string)
}
