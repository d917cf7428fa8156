package domain

import "github.com/shopspring/decimal"

// Status classifies a scanned price against the market for the matched product.
type Status string

const (
	StatusNormal          Status = "normal"
	StatusSuspiciouslyLow Status = "suspiciously_low"
	StatusOverpriced      Status = "overpriced"
	StatusAboveAverage    Status = "above_average"
	StatusBelowAverage    Status = "below_average"
	StatusNotFound        Status = "not_found"
)

// Query is one price-comparison request item. Immutable input.
type Query struct {
	ProductName       string
	ScannedPrice      decimal.Decimal
	Unit              string
	Quantity          float64
	ExcludeSupplierID string
}

// MatchedProduct describes the catalog product a query was matched to.
type MatchedProduct struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	StandardizedName string `json:"standardizedName,omitempty"`
	Unit             string `json:"unit,omitempty"`
	MatchScore       int    `json:"matchScore"`
}

// SupplierPrice is one market price shown in the analysis.
type SupplierPrice struct {
	SupplierID   string   `json:"supplierId"`
	SupplierName string   `json:"supplierName"`
	ProductName  string   `json:"productName"`
	Price        float64  `json:"price"`
	UnitPrice    *float64 `json:"unitPrice,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	UnitMatch    bool     `json:"unitMatch"`
}

// Deal is a cheaper alternative supplier offer.
type Deal struct {
	SupplierID     string   `json:"supplierId"`
	SupplierName   string   `json:"supplierName"`
	ProductName    string   `json:"productName"`
	Price          float64  `json:"price"`
	UnitPrice      *float64 `json:"unitPrice,omitempty"`
	Unit           string   `json:"unit,omitempty"`
	SavingsPercent float64  `json:"savingsPercent"`
}

// PriceAnalysis summarises the market for the matched product against the
// scanned price. Prices here are plain numbers for the response boundary;
// aggregation math happens on decimals upstream.
type PriceAnalysis struct {
	MinPrice         float64         `json:"minPrice"`
	MaxPrice         float64         `json:"maxPrice"`
	AvgPrice         float64         `json:"avgPrice"`
	SupplierPrice    *float64        `json:"supplierPrice,omitempty"`
	DeviationPercent float64         `json:"deviationPercent"`
	SupplierCount    int             `json:"supplierCount"`
	Suppliers        []SupplierPrice `json:"suppliers"`
	BetterDeals      []Deal          `json:"betterDeals"`
	HasBetterDeals   bool            `json:"hasBetterDeals"`
	IsBestPrice      bool            `json:"isBestPrice"`
}

// ComparisonResult is the per-item output of the comparison pipeline.
type ComparisonResult struct {
	ProductName    string          `json:"productName"`
	ScannedPrice   float64         `json:"scannedPrice"`
	Status         Status          `json:"status"`
	MatchedProduct *MatchedProduct `json:"matchedProduct,omitempty"`
	PriceAnalysis  *PriceAnalysis  `json:"priceAnalysis,omitempty"`
}

// StandardizationResult is the AI standardizer's best-effort answer.
type StandardizationResult struct {
	StandardizedName string  `json:"standardizedName"`
	Confidence       float64 `json:"confidence"`
}
