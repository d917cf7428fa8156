package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Enthusiasm-c/monito-web-sub006/internal/domain"
)

// aiConfidenceThreshold is the minimum standardizer confidence before a
// standardized name is trusted for a retrieval rerun.
const aiConfidenceThreshold = 0.7

// searchIndexLimit bounds how many hits the typo-tolerant index strategy pulls.
const searchIndexLimit = 20

// retrievalStrategy is one step of the escalating lookup pipeline. Strategies
// are evaluated lazily, in order, until one yields candidates.
type retrievalStrategy struct {
	name string
	run  func(ctx context.Context, raw, normalized string) ([]domain.CatalogProduct, error)
}

// Retriever issues progressively looser lookups against the catalog
// collaborators and falls back to AI standardization when every strategy
// comes up empty.
type Retriever struct {
	store      domain.CatalogStore
	index      domain.SearchIndex
	ai         domain.Standardizer
	sink       domain.UnmatchedSink
	normalizer *Normalizer
	scorer     *Scorer
	strategies []retrievalStrategy
}

// NewRetriever wires the strategy list in its fixed escalation order.
func NewRetriever(
	store domain.CatalogStore,
	index domain.SearchIndex,
	ai domain.Standardizer,
	sink domain.UnmatchedSink,
	normalizer *Normalizer,
	scorer *Scorer,
) *Retriever {
	r := &Retriever{
		store:      store,
		index:      index,
		ai:         ai,
		sink:       sink,
		normalizer: normalizer,
		scorer:     scorer,
	}
	r.strategies = []retrievalStrategy{
		{name: "alias", run: r.aliasLookup},
		{name: "substring", run: r.substringSearch},
		{name: "all_words", run: r.allWordsSearch},
		{name: "any_word", run: r.anyWordSearch},
		{name: "index", run: r.indexSearch},
		{name: "misspellings", run: r.misspellingSearch},
	}
	return r
}

// Retrieve runs the strategies in order, stopping at the first non-empty
// result set. A failing strategy is logged and skipped: a degraded catalog
// must not abort the item, it just narrows what can be found.
func (r *Retriever) Retrieve(ctx context.Context, raw string) []domain.CatalogProduct {
	normalized := r.normalizer.Normalize(raw)
	if normalized == "" {
		return nil
	}
	for _, s := range r.strategies {
		products, err := s.run(ctx, raw, normalized)
		if err != nil {
			log.Warn().Err(err).Str("strategy", s.name).Str("query", normalized).
				Msg("retrieval strategy failed")
			continue
		}
		if len(products) > 0 {
			log.Debug().Str("strategy", s.name).Str("query", normalized).
				Int("candidates", len(products)).Msg("retrieval hit")
			return dedupProducts(products)
		}
	}
	return nil
}

// StandardizeAndRetrieve asks the AI collaborator for a canonical name and
// reruns retrieval with it, including a per-word union fallback that keeps
// the single best similarity match. Best effort: any AI failure returns
// empty rather than an error.
func (r *Retriever) StandardizeAndRetrieve(ctx context.Context, q domain.Query) []domain.CatalogProduct {
	if r.ai == nil {
		return nil
	}
	result, err := r.ai.Standardize(ctx, q.ProductName, q.Unit, q.Quantity, q.ScannedPrice.InexactFloat64())
	if err != nil {
		log.Warn().Err(err).Str("query", q.ProductName).Msg("standardizer unavailable")
		return nil
	}
	if result == nil || result.StandardizedName == "" || result.Confidence <= aiConfidenceThreshold {
		return nil
	}

	if products := r.Retrieve(ctx, result.StandardizedName); len(products) > 0 {
		return products
	}
	return r.wordUnionFallback(ctx, result.StandardizedName)
}

// RecordUnmatched pushes the query into the manual-triage queue. Fire and
// forget; the sink owns failure handling.
func (r *Retriever) RecordUnmatched(ctx context.Context, q domain.Query) {
	if r.sink == nil {
		return
	}
	r.sink.Record(ctx, q.ProductName, r.normalizer.Normalize(q.ProductName), map[string]string{
		"unit":          q.Unit,
		"scanned_price": q.ScannedPrice.String(),
	})
}

func (r *Retriever) aliasLookup(ctx context.Context, _, normalized string) ([]domain.CatalogProduct, error) {
	return r.store.FindByAlias(ctx, normalized)
}

func (r *Retriever) substringSearch(ctx context.Context, raw, normalized string) ([]domain.CatalogProduct, error) {
	products, err := r.store.SearchSubstring(ctx, normalized)
	if err != nil || len(products) > 0 {
		return products, err
	}
	if trimmed := strings.TrimSpace(raw); trimmed != normalized {
		return r.store.SearchSubstring(ctx, trimmed)
	}
	return nil, nil
}

func (r *Retriever) allWordsSearch(ctx context.Context, _, normalized string) ([]domain.CatalogProduct, error) {
	words := strings.Fields(normalized)
	if len(words) < 2 {
		return nil, nil
	}
	return r.store.SearchAllWords(ctx, words)
}

func (r *Retriever) anyWordSearch(ctx context.Context, _, normalized string) ([]domain.CatalogProduct, error) {
	var words []string
	for _, w := range strings.Fields(normalized) {
		if len(w) >= 3 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return nil, nil
	}
	return r.store.SearchAnyWord(ctx, words)
}

func (r *Retriever) indexSearch(ctx context.Context, _, normalized string) ([]domain.CatalogProduct, error) {
	if len(normalized) < 4 || r.index == nil {
		return nil, nil
	}
	ids, err := r.index.Search(ctx, normalized, searchIndexLimit)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	return r.store.FindByIDs(ctx, ids)
}

func (r *Retriever) misspellingSearch(ctx context.Context, _, normalized string) ([]domain.CatalogProduct, error) {
	for _, variant := range misspellingVariants(normalized) {
		products, err := r.store.SearchSubstring(ctx, variant)
		if err != nil {
			return nil, err
		}
		if len(products) > 0 {
			return products, nil
		}
	}
	return nil, nil
}

// wordUnionFallback unions the substring candidates of every word of the
// standardized name and keeps the single best similarity match.
func (r *Retriever) wordUnionFallback(ctx context.Context, standardized string) []domain.CatalogProduct {
	var union []domain.CatalogProduct
	for _, w := range r.normalizer.Words(standardized) {
		if len(w) < 3 {
			continue
		}
		products, err := r.store.SearchSubstring(ctx, w)
		if err != nil {
			log.Warn().Err(err).Str("word", w).Msg("word fallback search failed")
			continue
		}
		union = append(union, products...)
	}
	union = dedupProducts(union)
	if len(union) == 0 {
		return nil
	}

	best := union[0]
	bestScore := r.scorer.Score(standardized, best.Name)
	for _, p := range union[1:] {
		if score := r.scorer.Score(standardized, p.Name); score > bestScore {
			best, bestScore = p, score
		}
	}
	if bestScore == 0 {
		return nil
	}
	return []domain.CatalogProduct{best}
}

// misspellingVariants generates the small fixed set of OCR-style spelling
// variants: double/single consonant swaps and the "-naise"/"-nnaise" toggle.
func misspellingVariants(q string) []string {
	var variants []string
	if strings.Contains(q, "nnaise") {
		variants = append(variants, strings.Replace(q, "nnaise", "naise", 1))
	} else if strings.Contains(q, "naise") {
		variants = append(variants, strings.Replace(q, "naise", "nnaise", 1))
	}
	for _, c := range "bcdfgklmnprstz" {
		double := strings.Repeat(string(c), 2)
		if strings.Contains(q, double) {
			variants = append(variants, strings.Replace(q, double, string(c), 1))
		} else if strings.ContainsRune(q, c) {
			variants = append(variants, strings.Replace(q, string(c), double, 1))
		}
	}
	return dedupStrings(variants)
}

func dedupProducts(products []domain.CatalogProduct) []domain.CatalogProduct {
	seen := make(map[string]bool, len(products))
	out := make([]domain.CatalogProduct, 0, len(products))
	for _, p := range products {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

func dedupStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
