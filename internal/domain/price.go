package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceLevel is the ordered 5-bucket electricity price ordinal.
// Index 2 (Normal) is the midpoint; see internal/pricelevel for the
// index/interpolation operations defined over it.
type PriceLevel int

const (
	VeryCheap PriceLevel = iota
	Cheap
	Normal
	Expensive
	VeryExpensive
)

func (l PriceLevel) String() string {
	switch l {
	case VeryCheap:
		return "VeryCheap"
	case Cheap:
		return "Cheap"
	case Normal:
		return "Normal"
	case Expensive:
		return "Expensive"
	case VeryExpensive:
		return "VeryExpensive"
	default:
		return "Unknown"
	}
}

// PriceInfo is one hourly price record. PriceLevel is our own derivation
// (internal/pricecache); it is nil until derivation has run for that hour,
// in which case ExtPriceLevel (the upstream provider's hint) is used instead.
type PriceInfo struct {
	StartsAt      time.Time
	Amount        decimal.Decimal
	Currency      string
	ExtPriceLevel PriceLevel
	PriceLevel    *PriceLevel
}

// EffectiveLevel returns our derived level if present, falling back to the
// provider's hint per spec §4.D step 4.
func (p PriceInfo) EffectiveLevel() PriceLevel {
	if p.PriceLevel != nil {
		return *p.PriceLevel
	}
	return p.ExtPriceLevel
}
