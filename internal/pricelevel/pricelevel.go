// Package pricelevel implements the ordinal price-level model (spec §4.A):
// mapping a PriceLevel to its 0..4 index and back, and interpolating a
// schedule's per-level target temperatures.
package pricelevel

import (
	"math"
	"sort"

	"github.com/madssf/smart-home/internal/domain"
)

// IndexOf returns the 0..4 ordinal for a PriceLevel.
func IndexOf(level domain.PriceLevel) int {
	return int(level)
}

// FromIndex saturates out-of-range indices to the nearest endpoint.
func FromIndex(i int) domain.PriceLevel {
	switch {
	case i <= int(domain.VeryCheap):
		return domain.VeryCheap
	case i >= int(domain.VeryExpensive):
		return domain.VeryExpensive
	default:
		return domain.PriceLevel(i)
	}
}

// Target resolves the temperature a schedule targets at the given price
// level, per spec §4.A:
//  1. exact match wins,
//  2. a single populated entry applies regardless of level,
//  3. otherwise linearly interpolate between the nearest populated
//     neighbours, rounded to one decimal.
func Target(temps map[domain.PriceLevel]float64, level domain.PriceLevel) (float64, bool) {
	if t, ok := temps[level]; ok {
		return t, true
	}
	if len(temps) == 0 {
		return 0, false
	}
	if len(temps) == 1 {
		for _, t := range temps {
			return t, true
		}
	}

	levels := make([]domain.PriceLevel, 0, len(temps))
	for l := range temps {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	i := IndexOf(level)
	var low, high *domain.PriceLevel
	for idx := range levels {
		l := levels[idx]
		if IndexOf(l) <= i {
			ll := l
			low = &ll
		}
		if IndexOf(l) >= i && high == nil {
			hh := l
			high = &hh
		}
	}

	switch {
	case low == nil && high == nil:
		return 0, false
	case low == nil:
		return temps[*high], true
	case high == nil:
		return temps[*low], true
	case *low == *high:
		return temps[*low], true
	default:
		tLow, tHigh := temps[*low], temps[*high]
		iLow, iHigh := IndexOf(*low), IndexOf(*high)
		interpolated := tLow + (float64(i-iLow))*(tHigh-tLow)/float64(iHigh-iLow)
		return round1(interpolated), true
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
