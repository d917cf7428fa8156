package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Enthusiasm-c/monito-web-sub006/internal/domain"
)

// ComparisonConfig holds configuration for the comparison service.
type ComparisonConfig struct {
	MinMatchScore  int // best matches below this trigger the AI second chance, then not_found
	MaxConcurrency int // parallel items per batch
	Analyzer       PriceAnalyzerConfig
}

// ComparisonService runs the full per-item pipeline: retrieval, scoring,
// best-match selection, price aggregation and deal finding. Items in a batch
// share no mutable state and run concurrently.
type ComparisonService struct {
	retriever      *Retriever
	scorer         *Scorer
	analyzer       *PriceAnalyzer
	minMatchScore  int
	maxConcurrency int
}

// NewComparisonService builds the service and its collaborating components
// around a single modifier table.
func NewComparisonService(
	store domain.CatalogStore,
	index domain.SearchIndex,
	ai domain.Standardizer,
	sink domain.UnmatchedSink,
	modifiers *ModifierTable,
	cfg ComparisonConfig,
) *ComparisonService {
	if modifiers == nil {
		modifiers = DefaultModifierTable()
	}
	normalizer := NewNormalizer(modifiers)
	scorer := NewScorer(normalizer, modifiers)

	minScore := cfg.MinMatchScore
	if minScore <= 0 {
		minScore = 30
	}
	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	return &ComparisonService{
		retriever:      NewRetriever(store, index, ai, sink, normalizer, scorer),
		scorer:         scorer,
		analyzer:       NewPriceAnalyzer(cfg.Analyzer),
		minMatchScore:  minScore,
		maxConcurrency: concurrency,
	}
}

// CompareBatch processes each query independently, preserving input order in
// the result slice. Cancelling the context stops scheduling new items but
// lets in-flight ones finish.
func (s *ComparisonService) CompareBatch(ctx context.Context, queries []domain.Query) []domain.ComparisonResult {
	results := make([]domain.ComparisonResult, len(queries))

	sem := make(chan struct{}, s.maxConcurrency)
	var wg sync.WaitGroup
	for i, q := range queries {
		if ctx.Err() != nil {
			results[i] = notFoundResult(q)
			continue
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, q domain.Query) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.compareItem(ctx, q)
		}(i, q)
	}
	wg.Wait()
	return results
}

// compareItem runs one query through the pipeline. Whatever goes wrong inside
// is contained here: a panic or collaborator failure costs this item its
// match, never the batch.
func (s *ComparisonService) compareItem(ctx context.Context, q domain.Query) (result domain.ComparisonResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("query", q.ProductName).
				Msg("comparison item panicked")
			result = notFoundResult(q)
		}
	}()

	if q.ProductName == "" || !q.ScannedPrice.IsPositive() {
		return notFoundResult(q)
	}

	candidates := s.retriever.Retrieve(ctx, q.ProductName)
	if len(candidates) == 0 {
		candidates = s.retriever.StandardizeAndRetrieve(ctx, q)
		if len(candidates) == 0 {
			s.retriever.RecordUnmatched(ctx, q)
			return notFoundResult(q)
		}
	}

	scored := s.scoreAll(q.ProductName, candidates)
	best, ok := SelectBestMatch(scored, q.Unit)

	// Second chance: a weak best match goes back through AI standardization
	// before the item is declared unmatched.
	if !ok || best.Score < s.minMatchScore {
		if aiCandidates := s.retriever.StandardizeAndRetrieve(ctx, q); len(aiCandidates) > 0 {
			scored = s.scoreAll(q.ProductName, aiCandidates)
			best, ok = SelectBestMatch(scored, q.Unit)
		}
	}
	if !ok || best.Score == 0 || best.Score < s.minMatchScore {
		return notFoundResult(q)
	}

	// Price aggregation spans every candidate that survived modifier
	// compatibility, not just the best match: the market for "tomato" is all
	// tomato offers.
	compatible := make([]domain.CatalogProduct, 0, len(scored))
	for _, c := range scored {
		if c.Score > 0 {
			compatible = append(compatible, c.Product)
		}
	}

	entries := s.analyzer.CollectEntries(compatible, q)
	supplierPrice := s.analyzer.SupplierCurrentPrice(compatible, q.ExcludeSupplierID)
	status, analysis := s.analyzer.Analyze(q, entries, supplierPrice)

	return domain.ComparisonResult{
		ProductName:  q.ProductName,
		ScannedPrice: q.ScannedPrice.InexactFloat64(),
		Status:       status,
		MatchedProduct: &domain.MatchedProduct{
			ID:               best.Product.ID,
			Name:             best.Product.Name,
			StandardizedName: best.Product.StandardizedName,
			Unit:             best.Product.Unit,
			MatchScore:       best.Score,
		},
		PriceAnalysis: analysis,
	}
}

func (s *ComparisonService) scoreAll(query string, candidates []domain.CatalogProduct) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, ScoredCandidate{
			Product: c,
			Score:   s.scorer.Score(query, c.Name),
		})
	}
	return scored
}

func notFoundResult(q domain.Query) domain.ComparisonResult {
	return domain.ComparisonResult{
		ProductName:  q.ProductName,
		ScannedPrice: q.ScannedPrice.InexactFloat64(),
		Status:       domain.StatusNotFound,
	}
}

// Summary aggregates a batch's outcomes for the response envelope.
type Summary struct {
	TotalItems      int `json:"total_items"`
	FoundItems      int `json:"found_items"`
	OverpricedItems int `json:"overpriced_items"`
	GoodDeals       int `json:"good_deals"`
}

// Summarize counts found, overpriced and good-deal items across results.
func Summarize(results []domain.ComparisonResult) Summary {
	s := Summary{TotalItems: len(results)}
	for _, r := range results {
		if r.Status != domain.StatusNotFound {
			s.FoundItems++
		}
		switch r.Status {
		case domain.StatusOverpriced:
			s.OverpricedItems++
		case domain.StatusBelowAverage:
			s.GoodDeals++
		}
	}
	return s
}
