package usecase

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Enthusiasm-c/monito-web-sub006/internal/domain"
)

// Deviation thresholds, applied in documented order against the surviving
// market prices. First match wins, so the bands are mutually exclusive.
var (
	suspiciouslyLowFactor = decimal.NewFromFloat(0.7)  // below 70% of market min
	overpricedFactor      = decimal.NewFromFloat(1.15) // above 115% of market max
	aboveAverageFactor    = decimal.NewFromFloat(1.05)
	belowAverageFactor    = decimal.NewFromFloat(0.95)

	percentFactor = decimal.NewFromInt(100)
)

const maxSuppliersShown = 10

// PriceAnalyzer builds the per-request market view for a matched product and
// classifies the scanned price against it.
type PriceAnalyzer struct {
	freshnessWindow time.Duration
	minSavingPct    float64
	dealsCap        int
	now             func() time.Time
}

// PriceAnalyzerConfig holds the externally configurable knobs.
type PriceAnalyzerConfig struct {
	FreshnessWindow time.Duration // default 7 days
	MinSavingPct    float64       // default 5
	DealsCap        int           // default 3
}

// NewPriceAnalyzer creates an analyzer, filling in defaults for zero values.
func NewPriceAnalyzer(cfg PriceAnalyzerConfig) *PriceAnalyzer {
	window := cfg.FreshnessWindow
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	saving := cfg.MinSavingPct
	if saving <= 0 {
		saving = 5
	}
	dealsCap := cfg.DealsCap
	if dealsCap <= 0 {
		dealsCap = 3
	}
	return &PriceAnalyzer{
		freshnessWindow: window,
		minSavingPct:    saving,
		dealsCap:        dealsCap,
		now:             time.Now,
	}
}

// CollectEntries flattens the active, non-excluded, non-stale price records
// of the given candidate products into sorted price entries.
func (a *PriceAnalyzer) CollectEntries(products []domain.CatalogProduct, q domain.Query) []domain.PriceEntry {
	now := a.now()
	var entries []domain.PriceEntry
	for _, p := range products {
		for _, r := range p.Prices {
			if !r.Active() {
				continue
			}
			if q.ExcludeSupplierID != "" && r.SupplierID == q.ExcludeSupplierID {
				continue
			}
			if r.Stale(now, a.freshnessWindow) {
				continue
			}
			entries = append(entries, domain.PriceEntry{
				Price:        r.Amount,
				UnitPrice:    r.UnitPrice,
				SupplierID:   r.SupplierID,
				SupplierName: r.SupplierName,
				ProductName:  p.Name,
				Unit:         r.Unit,
				UnitMatch:    q.Unit != "" && UnitsComparable(r.Unit, q.Unit),
				CreatedAt:    r.CreatedAt,
			})
		}
	}
	sortEntries(entries)
	return entries
}

// sortEntries orders entries: unit matches before mismatches, then unit price
// ascending when both sides unit-match and carry one, then total price
// ascending as the final tiebreak.
func sortEntries(entries []domain.PriceEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.UnitMatch != b.UnitMatch {
			return a.UnitMatch
		}
		if a.UnitMatch && b.UnitMatch && a.UnitPrice != nil && b.UnitPrice != nil {
			if !a.UnitPrice.Equal(*b.UnitPrice) {
				return a.UnitPrice.LessThan(*b.UnitPrice)
			}
		}
		return a.Price.LessThan(b.Price)
	})
}

// SupplierCurrentPrice returns the excluded supplier's own active price for
// the candidate products, when one exists. Staleness does not hide it: the
// caller is asking what that supplier currently charges.
func (a *PriceAnalyzer) SupplierCurrentPrice(products []domain.CatalogProduct, supplierID string) *decimal.Decimal {
	if supplierID == "" {
		return nil
	}
	for _, p := range products {
		for _, r := range p.Prices {
			if r.Active() && r.SupplierID == supplierID {
				amount := r.Amount
				return &amount
			}
		}
	}
	return nil
}

// Analyze classifies the scanned price against the entries and assembles the
// price analysis. Returns a nil analysis when no entries survived exclusion;
// the caller still reports the match in that case.
func (a *PriceAnalyzer) Analyze(q domain.Query, entries []domain.PriceEntry, supplierPrice *decimal.Decimal) (domain.Status, *domain.PriceAnalysis) {
	if len(entries) == 0 {
		return domain.StatusNormal, nil
	}

	min, max, avg := priceStats(entries)
	status, deviation := ClassifyDeviation(q.ScannedPrice, min, max, avg)

	scannedUnit := scannedUnitPrice(q)
	deals := a.findBetterDeals(q.ScannedPrice, scannedUnit, entries)

	analysis := &domain.PriceAnalysis{
		MinPrice:         min.InexactFloat64(),
		MaxPrice:         max.InexactFloat64(),
		AvgPrice:         avg.Round(2).InexactFloat64(),
		DeviationPercent: deviation,
		SupplierCount:    countSuppliers(entries),
		Suppliers:        topSuppliers(entries, maxSuppliersShown),
		BetterDeals:      deals,
		HasBetterDeals:   len(deals) > 0,
		IsBestPrice:      len(deals) == 0,
	}
	if supplierPrice != nil {
		v := supplierPrice.InexactFloat64()
		analysis.SupplierPrice = &v
	}
	return status, analysis
}

// ClassifyDeviation maps the scanned price onto a status band. Evaluated in
// this exact order; deviation is rounded to one decimal place and carries a
// negative sign for the cheap side.
func ClassifyDeviation(scanned, min, max, avg decimal.Decimal) (domain.Status, float64) {
	switch {
	case scanned.LessThan(min.Mul(suspiciouslyLowFactor)):
		dev := min.Sub(scanned).Div(min).Mul(percentFactor).Neg()
		return domain.StatusSuspiciouslyLow, dev.Round(1).InexactFloat64()
	case scanned.GreaterThan(max.Mul(overpricedFactor)):
		dev := scanned.Sub(max).Div(max).Mul(percentFactor)
		return domain.StatusOverpriced, dev.Round(1).InexactFloat64()
	case scanned.GreaterThan(avg.Mul(aboveAverageFactor)):
		dev := scanned.Sub(avg).Div(avg).Mul(percentFactor)
		return domain.StatusAboveAverage, dev.Round(1).InexactFloat64()
	case scanned.LessThan(avg.Mul(belowAverageFactor)):
		dev := avg.Sub(scanned).Div(avg).Mul(percentFactor).Neg()
		return domain.StatusBelowAverage, dev.Round(1).InexactFloat64()
	default:
		return domain.StatusNormal, 0
	}
}

func priceStats(entries []domain.PriceEntry) (min, max, avg decimal.Decimal) {
	min = entries[0].Price
	max = entries[0].Price
	sum := decimal.Zero
	for _, e := range entries {
		if e.Price.LessThan(min) {
			min = e.Price
		}
		if e.Price.GreaterThan(max) {
			max = e.Price
		}
		sum = sum.Add(e.Price)
	}
	avg = sum.Div(decimal.NewFromInt(int64(len(entries))))
	return min, max, avg
}

// scannedUnitPrice derives the query's own per-unit price when a quantity was
// scanned alongside the total. Without a quantity there is nothing to
// normalize by and unit-level deal comparison falls back to totals.
func scannedUnitPrice(q domain.Query) *decimal.Decimal {
	if q.Quantity <= 0 {
		return nil
	}
	u := UnitPrice(q.ScannedPrice, q.Quantity, nil)
	return &u
}

func countSuppliers(entries []domain.PriceEntry) int {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.SupplierID] = true
	}
	return len(seen)
}

func topSuppliers(entries []domain.PriceEntry, limit int) []domain.SupplierPrice {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]domain.SupplierPrice, 0, len(entries))
	for _, e := range entries {
		sp := domain.SupplierPrice{
			SupplierID:   e.SupplierID,
			SupplierName: e.SupplierName,
			ProductName:  e.ProductName,
			Price:        e.Price.InexactFloat64(),
			Unit:         e.Unit,
			UnitMatch:    e.UnitMatch,
		}
		if e.UnitPrice != nil {
			v := e.UnitPrice.InexactFloat64()
			sp.UnitPrice = &v
		}
		out = append(out, sp)
	}
	return out
}
