package usecase

import "fmt"

// ModifierTable partitions modifier words into two disjoint sets. Exclusive
// modifiers change product identity; descriptive modifiers describe grade or
// size only and never disqualify a match. The table is immutable after
// construction and injected into the engine, so tests can swap vocabularies.
type ModifierTable struct {
	exclusive   map[string]bool
	descriptive map[string]bool
}

// NewModifierTable builds a table from the two word sets. A word appearing in
// both sets is a configuration error.
func NewModifierTable(exclusive, descriptive []string) (*ModifierTable, error) {
	t := &ModifierTable{
		exclusive:   make(map[string]bool, len(exclusive)),
		descriptive: make(map[string]bool, len(descriptive)),
	}
	for _, w := range exclusive {
		t.exclusive[w] = true
	}
	for _, w := range descriptive {
		if t.exclusive[w] {
			return nil, fmt.Errorf("modifier %q is both exclusive and descriptive", w)
		}
		t.descriptive[w] = true
	}
	return t, nil
}

// IsExclusive reports whether the word changes product identity.
func (t *ModifierTable) IsExclusive(word string) bool {
	return t.exclusive[word]
}

// IsDescriptive reports whether the word is a grade/size descriptor.
func (t *ModifierTable) IsDescriptive(word string) bool {
	return t.descriptive[word]
}

// IsModifier reports whether the word is in either set.
func (t *ModifierTable) IsModifier(word string) bool {
	return t.exclusive[word] || t.descriptive[word]
}

// ExclusiveIn returns the exclusive modifiers present in the word list.
func (t *ModifierTable) ExclusiveIn(words []string) []string {
	var out []string
	for _, w := range words {
		if t.exclusive[w] {
			out = append(out, w)
		}
	}
	return out
}

// DescriptiveIn returns the descriptive modifiers present in the word list.
func (t *ModifierTable) DescriptiveIn(words []string) []string {
	var out []string
	for _, w := range words {
		if t.descriptive[w] {
			out = append(out, w)
		}
	}
	return out
}

// Compatible applies the modifier compatibility rule: a candidate is
// incompatible iff the query contains at least one exclusive modifier the
// candidate's words do not also contain. A query with zero exclusive
// modifiers is compatible with any candidate, whatever exclusive modifiers
// the candidate itself carries.
func (t *ModifierTable) Compatible(queryWords, candidateWords []string) bool {
	queryExclusive := t.ExclusiveIn(queryWords)
	if len(queryExclusive) == 0 {
		return true
	}
	candidateSet := make(map[string]bool, len(candidateWords))
	for _, w := range candidateWords {
		candidateSet[w] = true
	}
	for _, m := range queryExclusive {
		if !candidateSet[m] {
			return false
		}
	}
	return true
}

// exclusiveModifiers denote a materially different product: color, origin,
// processing state, life stage, sex, import status.
var exclusiveModifiers = []string{
	// Flavor/variety identity
	"sweet", "sour", "bitter", "spicy", "hot",
	// Color
	"red", "green", "yellow", "purple", "black", "white", "brown", "orange",
	// Processing state
	"frozen", "dried", "smoked", "canned", "pickled", "salted", "fermented",
	"roasted", "fried", "cooked", "raw", "instant",
	"ground", "minced", "shredded", "peeled", "sliced",
	"boneless", "skinless",
	// Life stage / size-as-identity
	"baby", "young", "mature",
	// Origin / cultivation
	"organic", "local", "imported", "wild",
	// Sex (poultry, livestock)
	"male", "female",
}

// descriptiveModifiers denote grade or size only and never disqualify a match.
var descriptiveModifiers = []string{
	"large", "big", "small", "medium", "mini", "jumbo", "giant",
	"premium", "super", "extra", "special", "select", "choice",
	"grade", "quality", "fine", "best",
	"fresh", "new", "thin", "thick", "whole",
}

// DefaultModifierTable returns the built-in modifier vocabulary.
func DefaultModifierTable() *ModifierTable {
	t, err := NewModifierTable(exclusiveModifiers, descriptiveModifiers)
	if err != nil {
		// The built-in lists are checked by tests; an overlap here is a bug.
		panic(err)
	}
	return t
}
