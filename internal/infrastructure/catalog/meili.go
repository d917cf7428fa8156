package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	meilisearch "github.com/meilisearch/meilisearch-go"
)

// Index adapts a Meilisearch index to domain.SearchIndex. Meilisearch brings
// the typo tolerance the exact Postgres lookups lack, so it sits late in the
// retrieval escalation.
type Index struct {
	index meilisearch.IndexManager
}

// NewIndex connects to a Meilisearch instance and targets the given index.
func NewIndex(baseURL, apiKey, indexName string) *Index {
	client := meilisearch.New(baseURL, meilisearch.WithAPIKey(apiKey))
	return &Index{index: client.Index(indexName)}
}

// Search returns the product IDs of the top hits for the query.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]string, error) {
	res, err := i.index.SearchWithContext(ctx, query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}

	// Round-trip through JSON so the hit shape stays decoupled from the
	// client library's hit representation.
	raw, err := json.Marshal(res.Hits)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}
	var hits []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		if h.ID != "" {
			ids = append(ids, h.ID)
		}
	}
	return ids, nil
}
