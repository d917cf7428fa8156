package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex    = regexp.MustCompile(`[^\w\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// Normalizer cleans incoming product-name strings and extracts the core noun
// (the significant words left after stripping all modifiers).
type Normalizer struct {
	modifiers *ModifierTable
}

// NewNormalizer creates a normalizer using the given modifier table.
func NewNormalizer(modifiers *ModifierTable) *Normalizer {
	return &Normalizer{modifiers: modifiers}
}

// Normalize lower-cases, strips punctuation and collapses whitespace.
// Idempotent: Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(s string) string {
	s = strings.ToLower(s)
	s = punctuationRegex.ReplaceAllString(s, " ")
	s = multipleSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Words returns the normalized token sequence.
func (n *Normalizer) Words(s string) []string {
	normalized := n.Normalize(s)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// CoreWords returns the normalized tokens with all modifiers stripped.
func (n *Normalizer) CoreWords(s string) []string {
	var core []string
	for _, w := range n.Words(s) {
		if !n.modifiers.IsModifier(w) {
			core = append(core, w)
		}
	}
	return core
}

// CoreNoun joins the core words into the query's essential noun phrase.
// Empty when the name consists only of modifiers.
func (n *Normalizer) CoreNoun(s string) string {
	return strings.Join(n.CoreWords(s), " ")
}
