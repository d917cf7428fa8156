package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogProduct represents a canonical product from the catalog, together
// with its currently known supplier price records. The catalog owns these;
// the engine treats them as read-only.
type CatalogProduct struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	StandardizedName string        `json:"standardizedName,omitempty"`
	RawName          string        `json:"rawName,omitempty"`
	Unit             string        `json:"unit,omitempty"`
	Prices           []PriceRecord `json:"prices,omitempty"`
}

// PriceRecord is one supplier's price for a catalog product.
type PriceRecord struct {
	Amount       decimal.Decimal  `json:"amount"`
	Unit         string           `json:"unit"`
	SupplierID   string           `json:"supplierId"`
	SupplierName string           `json:"supplierName"`
	UnitPrice    *decimal.Decimal `json:"unitPrice,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	ValidTo      *time.Time       `json:"validTo,omitempty"`
}

// Active reports whether the record is still current (no expiry set).
func (r PriceRecord) Active() bool {
	return r.ValidTo == nil
}

// Stale reports whether an active record is older than the freshness window.
// Expired records are never stale: staleness only marks records that claim to
// be current but have not been refreshed.
func (r PriceRecord) Stale(now time.Time, window time.Duration) bool {
	return r.Active() && now.Sub(r.CreatedAt) > window
}

// PriceEntry is a flattened, per-request view of one supplier price for one
// candidate product. Built fresh for every comparison and discarded after.
type PriceEntry struct {
	Price        decimal.Decimal
	UnitPrice    *decimal.Decimal
	SupplierID   string
	SupplierName string
	ProductName  string
	Unit         string
	UnitMatch    bool
	CreatedAt    time.Time
}
