package usecase

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Canonical units the engine compares prices across. Two differently spelled
// units are comparable iff they map to the same canonical form; no cross-unit
// conversion (kg vs l) is ever attempted.
const (
	UnitKg      = "kg"
	UnitGram    = "g"
	UnitLiter   = "l"
	UnitMl      = "ml"
	UnitPieces  = "pcs"
	UnitPack    = "pack"
	UnitBox     = "box"
	UnitBottle  = "btl"
	UnitCan     = "can"
	UnitBunch   = "bunch"
	UnitPortion = "portion"
	UnitSheet   = "sheet"
)

// unitSynonyms maps raw unit spellings (lower-cased) to canonical units.
var unitSynonyms = map[string]string{
	"kg": UnitKg, "kgs": UnitKg, "kilo": UnitKg, "kilos": UnitKg,
	"kilogram": UnitKg, "kilograms": UnitKg,

	"g": UnitGram, "gr": UnitGram, "gram": UnitGram, "grams": UnitGram,

	"l": UnitLiter, "lt": UnitLiter, "ltr": UnitLiter,
	"liter": UnitLiter, "liters": UnitLiter, "litre": UnitLiter, "litres": UnitLiter,

	"ml": UnitMl, "milliliter": UnitMl, "milliliters": UnitMl,
	"millilitre": UnitMl, "millilitres": UnitMl,

	"pc": UnitPieces, "pcs": UnitPieces, "piece": UnitPieces, "pieces": UnitPieces,
	"each": UnitPieces, "ea": UnitPieces, "unit": UnitPieces, "units": UnitPieces,

	"pack": UnitPack, "packs": UnitPack, "pkt": UnitPack, "packet": UnitPack, "packets": UnitPack,

	"box": UnitBox, "boxes": UnitBox, "carton": UnitBox, "cartons": UnitBox,

	"btl": UnitBottle, "bottle": UnitBottle, "bottles": UnitBottle,

	"can": UnitCan, "cans": UnitCan, "tin": UnitCan, "tins": UnitCan,

	"bunch": UnitBunch, "bunches": UnitBunch,

	"portion": UnitPortion, "portions": UnitPortion, "serving": UnitPortion, "servings": UnitPortion,

	"sheet": UnitSheet, "sheets": UnitSheet,
}

// CanonicalUnit maps a raw unit string to its canonical form. Unknown units
// pass through lower-cased so equal spellings still compare equal.
func CanonicalUnit(raw string) string {
	u := strings.ToLower(strings.TrimSpace(raw))
	if u == "" {
		return ""
	}
	u = strings.TrimSuffix(u, ".")
	if canonical, ok := unitSynonyms[u]; ok {
		return canonical
	}
	return u
}

// UnitsComparable reports whether two raw unit strings denote the same
// canonical unit. Empty units are never comparable.
func UnitsComparable(a, b string) bool {
	ca, cb := CanonicalUnit(a), CanonicalUnit(b)
	return ca != "" && ca == cb
}

// UnitPrice computes a per-canonical-unit price. A stored unit price wins;
// otherwise the amount is divided by the quantity, defaulting to 1.
func UnitPrice(amount decimal.Decimal, quantity float64, stored *decimal.Decimal) decimal.Decimal {
	if stored != nil {
		return *stored
	}
	if quantity <= 0 {
		quantity = 1
	}
	return amount.Div(decimal.NewFromFloat(quantity))
}
