package usecase

import "github.com/Enthusiasm-c/monito-web-sub006/internal/domain"

// ScoredCandidate pairs a catalog product with its similarity score against
// the current query.
type ScoredCandidate struct {
	Product domain.CatalogProduct
	Score   int
}

// SelectBestMatch reduces a candidate list to the single best match by an
// explicit fold: each candidate is compared against the current best with
// beats, and ties keep the earlier candidate. Returns false for an empty list.
func SelectBestMatch(candidates []ScoredCandidate, queryUnit string) (ScoredCandidate, bool) {
	if len(candidates) == 0 {
		return ScoredCandidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if beats(c, best, queryUnit) {
			best = c
		}
	}
	return best, true
}

// beats reports whether challenger should replace best. Rules, in order:
// a zero-score candidate always loses to a non-zero one; when the query has a
// unit, a canonical-unit match beats a mismatch as long as both candidates
// score non-zero; otherwise the higher score wins.
func beats(challenger, best ScoredCandidate, queryUnit string) bool {
	if challenger.Score == 0 {
		return false
	}
	if best.Score == 0 {
		return true
	}
	if queryUnit != "" {
		cMatch := UnitsComparable(challenger.Product.Unit, queryUnit)
		bMatch := UnitsComparable(best.Product.Unit, queryUnit)
		if cMatch != bMatch {
			return cMatch
		}
	}
	return challenger.Score > best.Score
}
