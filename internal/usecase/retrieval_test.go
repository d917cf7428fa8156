package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Enthusiasm-c/monito-web-sub006/internal/domain"
)

// fakeStore is shared between goroutines when used through CompareBatch, so
// the call log is mutex-guarded.
type fakeStore struct {
	mu    sync.Mutex
	calls []string

	alias    map[string][]domain.CatalogProduct
	substr   map[string][]domain.CatalogProduct
	allWords map[string][]domain.CatalogProduct
	anyWord  map[string][]domain.CatalogProduct
	byID     map[string]domain.CatalogProduct

	aliasErr error
}

func (s *fakeStore) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *fakeStore) callLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeStore) FindByAlias(_ context.Context, name string) ([]domain.CatalogProduct, error) {
	s.record("alias:" + name)
	if s.aliasErr != nil {
		return nil, s.aliasErr
	}
	return s.alias[name], nil
}

func (s *fakeStore) SearchSubstring(_ context.Context, q string) ([]domain.CatalogProduct, error) {
	s.record("substring:" + q)
	return s.substr[q], nil
}

func (s *fakeStore) SearchAllWords(_ context.Context, words []string) ([]domain.CatalogProduct, error) {
	key := strings.Join(words, " ")
	s.record("all_words:" + key)
	return s.allWords[key], nil
}

func (s *fakeStore) SearchAnyWord(_ context.Context, words []string) ([]domain.CatalogProduct, error) {
	key := strings.Join(words, " ")
	s.record("any_word:" + key)
	return s.anyWord[key], nil
}

func (s *fakeStore) FindByIDs(_ context.Context, ids []string) ([]domain.CatalogProduct, error) {
	s.record("by_ids:" + strings.Join(ids, ","))
	var out []domain.CatalogProduct
	for _, id := range ids {
		if p, ok := s.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeIndex struct {
	mu     sync.Mutex
	called bool
	ids    []string
	err    error
}

func (i *fakeIndex) Search(_ context.Context, _ string, _ int) ([]string, error) {
	i.mu.Lock()
	i.called = true
	i.mu.Unlock()
	return i.ids, i.err
}

type fakeStandardizer struct {
	result *domain.StandardizationResult
	err    error
}

func (f *fakeStandardizer) Standardize(_ context.Context, _, _ string, _, _ float64) (*domain.StandardizationResult, error) {
	return f.result, f.err
}

type fakeSink struct {
	mu              sync.Mutex
	rawNames        []string
	normalizedNames []string
	contexts        []map[string]string
}

func (f *fakeSink) Record(_ context.Context, rawName, normalizedName string, meta map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rawNames = append(f.rawNames, rawName)
	f.normalizedNames = append(f.normalizedNames, normalizedName)
	f.contexts = append(f.contexts, meta)
}

func (f *fakeSink) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.rawNames...)
}

func newTestRetriever(store *fakeStore, index *fakeIndex, ai *fakeStandardizer, sink *fakeSink) *Retriever {
	m := DefaultModifierTable()
	n := NewNormalizer(m)
	return NewRetriever(store, index, ai, sink, n, NewScorer(n, m))
}

func product(id, name string) domain.CatalogProduct {
	return domain.CatalogProduct{ID: id, Name: name}
}

func TestRetrieveAliasShortCircuits(t *testing.T) {
	store := &fakeStore{
		alias:  map[string][]domain.CatalogProduct{"tomato": {product("p1", "Tomato")}},
		substr: map[string][]domain.CatalogProduct{"tomato": {product("p2", "Tomato Roma")}},
	}
	r := newTestRetriever(store, &fakeIndex{}, &fakeStandardizer{}, &fakeSink{})

	got := r.Retrieve(context.Background(), "Tomato")
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("got %+v, want the alias hit only", got)
	}
	if len(store.calls) != 1 {
		t.Errorf("calls = %v, want retrieval to stop after the alias hit", store.calls)
	}
}

func TestRetrieveEscalationOrder(t *testing.T) {
	store := &fakeStore{}
	index := &fakeIndex{}
	r := newTestRetriever(store, index, &fakeStandardizer{}, &fakeSink{})

	got := r.Retrieve(context.Background(), "red onion")
	if got != nil {
		t.Fatalf("got %+v, want nothing from an empty catalog", got)
	}

	wantPrefix := []string{
		"alias:red onion",
		"substring:red onion",
		"all_words:red onion",
		"any_word:red onion",
	}
	if len(store.calls) < len(wantPrefix) {
		t.Fatalf("calls = %v, want at least %v", store.calls, wantPrefix)
	}
	for i, want := range wantPrefix {
		if store.calls[i] != want {
			t.Errorf("calls[%d] = %q, want %q", i, store.calls[i], want)
		}
	}
	if !index.called {
		t.Error("expected the search index to be consulted after direct lookups")
	}
	// Misspelling variants come last, as more substring probes.
	last := store.calls[len(store.calls)-1]
	if !strings.HasPrefix(last, "substring:") {
		t.Errorf("last call = %q, want a misspelling substring probe", last)
	}
}

func TestRetrieveSubstringRetriesRawQuery(t *testing.T) {
	store := &fakeStore{
		substr: map[string][]domain.CatalogProduct{"Aus. Beef": {product("p1", "Aus. Beef Cubes")}},
	}
	r := newTestRetriever(store, &fakeIndex{}, &fakeStandardizer{}, &fakeSink{})

	got := r.Retrieve(context.Background(), "Aus. Beef")
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("got %+v, want the raw-spelling substring hit", got)
	}
}

func TestRetrieveSkipsFailingStrategy(t *testing.T) {
	store := &fakeStore{
		aliasErr: errors.New("catalog down"),
		substr:   map[string][]domain.CatalogProduct{"tomato": {product("p1", "Tomato")}},
	}
	r := newTestRetriever(store, &fakeIndex{}, &fakeStandardizer{}, &fakeSink{})

	got := r.Retrieve(context.Background(), "tomato")
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("got %+v, want the substring hit despite the alias failure", got)
	}
}

func TestRetrieveDeduplicatesByID(t *testing.T) {
	store := &fakeStore{
		substr: map[string][]domain.CatalogProduct{
			"tomato": {product("p1", "Tomato"), product("p1", "Tomato"), product("p2", "Tomato Roma")},
		},
	}
	r := newTestRetriever(store, &fakeIndex{}, &fakeStandardizer{}, &fakeSink{})

	got := r.Retrieve(context.Background(), "tomato")
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2 after dedup", len(got))
	}
}

func TestRetrieveUsesIndexHits(t *testing.T) {
	store := &fakeStore{
		byID: map[string]domain.CatalogProduct{"p9": product("p9", "Mayonnaise")},
	}
	index := &fakeIndex{ids: []string{"p9"}}
	r := newTestRetriever(store, index, &fakeStandardizer{}, &fakeSink{})

	got := r.Retrieve(context.Background(), "mayonase")
	if len(got) != 1 || got[0].ID != "p9" {
		t.Fatalf("got %+v, want the index hit resolved through the store", got)
	}
}

func TestStandardizeAndRetrieve(t *testing.T) {
	query := domain.Query{ProductName: "chikn brst", ScannedPrice: decimal.NewFromInt(1000)}

	t.Run("standardizer error yields nothing", func(t *testing.T) {
		r := newTestRetriever(&fakeStore{}, &fakeIndex{}, &fakeStandardizer{err: errors.New("timeout")}, &fakeSink{})
		if got := r.StandardizeAndRetrieve(context.Background(), query); got != nil {
			t.Errorf("got %+v, want nil", got)
		}
	})

	t.Run("low confidence is ignored", func(t *testing.T) {
		ai := &fakeStandardizer{result: &domain.StandardizationResult{StandardizedName: "chicken breast", Confidence: 0.5}}
		store := &fakeStore{
			substr: map[string][]domain.CatalogProduct{"chicken breast": {product("p1", "Chicken Breast")}},
		}
		r := newTestRetriever(store, &fakeIndex{}, ai, &fakeSink{})
		if got := r.StandardizeAndRetrieve(context.Background(), query); got != nil {
			t.Errorf("got %+v, want nil for confidence at or below threshold", got)
		}
	})

	t.Run("confident name reruns retrieval", func(t *testing.T) {
		ai := &fakeStandardizer{result: &domain.StandardizationResult{StandardizedName: "chicken breast", Confidence: 0.9}}
		store := &fakeStore{
			substr: map[string][]domain.CatalogProduct{"chicken breast": {product("p1", "Chicken Breast")}},
		}
		r := newTestRetriever(store, &fakeIndex{}, ai, &fakeSink{})
		got := r.StandardizeAndRetrieve(context.Background(), query)
		if len(got) != 1 || got[0].ID != "p1" {
			t.Fatalf("got %+v, want the standardized-name hit", got)
		}
	})

	t.Run("word union fallback keeps the best match", func(t *testing.T) {
		ai := &fakeStandardizer{result: &domain.StandardizationResult{StandardizedName: "chicken breast", Confidence: 0.9}}
		store := &fakeStore{
			substr: map[string][]domain.CatalogProduct{
				"chicken": {product("p1", "Chicken Breast Fillet"), product("p2", "Chicken Wing")},
				"breast":  {product("p1", "Chicken Breast Fillet")},
			},
		}
		r := newTestRetriever(store, &fakeIndex{}, ai, &fakeSink{})
		got := r.StandardizeAndRetrieve(context.Background(), query)
		if len(got) != 1 || got[0].ID != "p1" {
			t.Fatalf("got %+v, want only the best-scoring union candidate", got)
		}
	})
}

func TestRecordUnmatched(t *testing.T) {
	sink := &fakeSink{}
	r := newTestRetriever(&fakeStore{}, &fakeIndex{}, &fakeStandardizer{}, sink)

	q := domain.Query{ProductName: "Mystery  Item!", ScannedPrice: decimal.NewFromInt(4500), Unit: "pcs"}
	r.RecordUnmatched(context.Background(), q)

	if len(sink.rawNames) != 1 || sink.rawNames[0] != "Mystery  Item!" {
		t.Fatalf("raw names = %v, want the original spelling", sink.rawNames)
	}
	if sink.normalizedNames[0] != "mystery item" {
		t.Errorf("normalized = %q, want %q", sink.normalizedNames[0], "mystery item")
	}
	if sink.contexts[0]["unit"] != "pcs" || sink.contexts[0]["scanned_price"] != "4500" {
		t.Errorf("context = %v, want unit and scanned price", sink.contexts[0])
	}
}

func TestMisspellingVariants(t *testing.T) {
	t.Run("double consonant collapses", func(t *testing.T) {
		variants := misspellingVariants("tomatto")
		if !containsString(variants, "tomato") {
			t.Errorf("variants = %v, want to include %q", variants, "tomato")
		}
	})

	t.Run("naise gains a consonant", func(t *testing.T) {
		variants := misspellingVariants("mayonaise")
		if !containsString(variants, "mayonnaise") {
			t.Errorf("variants = %v, want to include %q", variants, "mayonnaise")
		}
	})

	t.Run("no duplicates", func(t *testing.T) {
		variants := misspellingVariants("pepper")
		seen := map[string]bool{}
		for _, v := range variants {
			if seen[v] {
				t.Errorf("duplicate variant %q", v)
			}
			seen[v] = true
		}
	})
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
