package usecase

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// Scoring weights and caps. Only genuinely exact or word-permutation matches
// may reach the 95-100 band; everything computed from overlap tops out at 90.
const (
	scoreExact       = 100
	scoreSortedEqual = 95
	scorePartialCap  = 90.0

	exactBonusWeight       = 0.3
	descriptiveBonusWeight = 0.1
	extraWordPenaltyWeight = 0.05
	partialScoreMultiplier = 80.0

	// Minimum length of the shorter word for a substring word match, so that
	// plurals and inflections match without short tokens matching everything.
	minSubstringWordLen = 3
)

// Scorer computes a 0-100 compatibility score between a query and a candidate
// product name.
type Scorer struct {
	normalizer *Normalizer
	modifiers  *ModifierTable
}

// NewScorer creates a scorer over the given normalizer and modifier table.
func NewScorer(normalizer *Normalizer, modifiers *ModifierTable) *Scorer {
	return &Scorer{normalizer: normalizer, modifiers: modifiers}
}

// Score applies the scoring rules in priority order; the first applicable
// rule wins. Case and whitespace never affect the result: both sides are
// normalized before any comparison.
func (s *Scorer) Score(query, candidate string) int {
	qNorm := s.normalizer.Normalize(query)
	cNorm := s.normalizer.Normalize(candidate)
	if qNorm == "" || cNorm == "" {
		return 0
	}

	qWords := strings.Fields(qNorm)
	cWords := strings.Fields(cNorm)

	// 1. Different core nouns never match, whatever the word overlap says.
	if !s.sameCoreNoun(qNorm, cNorm) {
		return 0
	}

	// 2. An exclusive modifier in the query that the candidate lacks denotes
	// a different product.
	if !s.modifiers.Compatible(qWords, cWords) {
		return 0
	}

	// 3. Exact match after normalization.
	if qNorm == cNorm {
		return scoreExact
	}

	// 4. Same words in a different order.
	if sortedJoin(qWords) == sortedJoin(cWords) {
		return scoreSortedEqual
	}

	// 5. Every query core word must be substring-matchable against some
	// candidate core word.
	qCore := s.coreOf(qWords)
	cCore := s.coreOf(cWords)
	if len(qCore) > 0 && len(cCore) > 0 && !allWordsMatch(qCore, cCore) {
		return 0
	}

	// 6. Every query word, modifiers included, must find a candidate word.
	if !allWordsMatch(qWords, cWords) {
		return 0
	}

	// 7. Overlap-based score.
	matched := 0
	exact := 0
	cSet := make(map[string]bool, len(cWords))
	for _, w := range cWords {
		cSet[w] = true
	}
	for _, qw := range qWords {
		if wordAnyMatch(qw, cWords) {
			matched++
		}
		if cSet[qw] {
			exact++
		}
	}

	maxLen := len(qWords)
	if len(cWords) > maxLen {
		maxLen = len(cWords)
	}
	wordOverlap := float64(matched) / float64(maxLen)
	exactBonus := exactBonusWeight * float64(exact) / float64(len(qWords))

	descriptiveBonus := 0.0
	if len(s.modifiers.ExclusiveIn(cWords)) == 0 && len(s.modifiers.DescriptiveIn(cWords)) > 0 {
		descriptiveBonus = descriptiveBonusWeight
	}

	extraWords := len(cWords) - len(qWords)
	if extraWords < 0 {
		extraWords = 0
	}
	penalty := extraWordPenaltyWeight * float64(extraWords)

	score := (wordOverlap + exactBonus + descriptiveBonus - penalty) * partialScoreMultiplier
	if score < 0 {
		score = 0
	}
	if score > scorePartialCap {
		score = scorePartialCap
	}
	return int(math.Round(score))
}

// sameCoreNoun gates scoring on the essential noun phrase: both sides'
// modifier-stripped nouns must be equal or contain one another. Word order is
// ignored so reordered names survive the gate; substring tolerance keeps
// plurals and partial names matchable. Identity differences expressed through
// exclusive modifiers are handled by the compatibility rule, not here.
func (s *Scorer) sameCoreNoun(qNorm, cNorm string) bool {
	qNoun := sortedJoin(s.normalizer.CoreWords(qNorm))
	cNoun := sortedJoin(s.normalizer.CoreWords(cNorm))
	if qNoun == "" || cNoun == "" {
		return true
	}
	return qNoun == cNoun ||
		strings.Contains(qNoun, cNoun) ||
		strings.Contains(cNoun, qNoun)
}

func (s *Scorer) coreOf(words []string) []string {
	var core []string
	for _, w := range words {
		if !s.modifiers.IsModifier(w) {
			core = append(core, w)
		}
	}
	return core
}

// wordsMatch reports whether two normalized words match: equal, or one is a
// substring of the other with the shorter at least minSubstringWordLen runes.
func wordsMatch(a, b string) bool {
	if a == b {
		return true
	}
	shorter := a
	if len(b) < len(a) {
		shorter = b
	}
	if utf8.RuneCountInString(shorter) < minSubstringWordLen {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func wordAnyMatch(w string, candidates []string) bool {
	for _, c := range candidates {
		if wordsMatch(w, c) {
			return true
		}
	}
	return false
}

func allWordsMatch(words, candidates []string) bool {
	for _, w := range words {
		if !wordAnyMatch(w, candidates) {
			return false
		}
	}
	return true
}

func sortedJoin(words []string) string {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}
