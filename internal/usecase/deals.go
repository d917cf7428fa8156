package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/Enthusiasm-c/monito-web-sub006/internal/domain"
)

// findBetterDeals filters the sorted entries down to alternatives that beat
// the scanned price by at least the configured minimum savings percentage,
// deduplicated on the (supplier, price, product) triple and capped. The
// input order is the aggregator's sort order, so the cap keeps the best ones.
func (a *PriceAnalyzer) findBetterDeals(scanned decimal.Decimal, scannedUnit *decimal.Decimal, entries []domain.PriceEntry) []domain.Deal {
	deals := make([]domain.Deal, 0, a.dealsCap)
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		if len(deals) >= a.dealsCap {
			break
		}
		savings, ok := savingsPercent(scanned, scannedUnit, e)
		if !ok || savings < a.minSavingPct {
			continue
		}
		key := e.SupplierID + "|" + e.Price.String() + "|" + e.ProductName
		if seen[key] {
			continue
		}
		seen[key] = true

		deal := domain.Deal{
			SupplierID:     e.SupplierID,
			SupplierName:   e.SupplierName,
			ProductName:    e.ProductName,
			Price:          e.Price.InexactFloat64(),
			Unit:           e.Unit,
			SavingsPercent: savings,
		}
		if e.UnitPrice != nil {
			v := e.UnitPrice.InexactFloat64()
			deal.UnitPrice = &v
		}
		deals = append(deals, deal)
	}
	return deals
}

// savingsPercent computes how much cheaper the entry is than the scanned
// item, in percent of the scanned price. Unit prices are compared when both
// sides have one and the entry's unit matches the query's; otherwise total
// prices are compared. Returns false when no comparison basis exists.
func savingsPercent(scanned decimal.Decimal, scannedUnit *decimal.Decimal, e domain.PriceEntry) (float64, bool) {
	base := scanned
	other := e.Price
	if scannedUnit != nil && e.UnitPrice != nil && e.UnitMatch {
		base = *scannedUnit
		other = *e.UnitPrice
	}
	if base.IsZero() {
		return 0, false
	}
	pct := base.Sub(other).Div(base).Mul(percentFactor)
	return pct.Round(1).InexactFloat64(), true
}
