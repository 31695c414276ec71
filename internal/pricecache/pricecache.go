// Package pricecache implements the price derivation and caching logic of
// spec §4.F: blending a provider's daily price average with its hourly
// price-level hint into our own PriceLevel, persisting the result, and
// serving current_price lookups with fallback to the upstream provider
// when the store has nothing for the requested hour. The blend formula is
// ported from the daily-median/ratio-bucket derivation in the original
// Tibber price service.
package pricecache

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/madssf/smart-home/internal/domain"
	"github.com/madssf/smart-home/internal/pricelevel"
	"github.com/madssf/smart-home/internal/store"
)

// DailyPrice is one provider day's average price, used only to compute the
// median that anchors the ratio buckets below.
type DailyPrice struct {
	StartsAt time.Time
	Total    float64
}

// PriceProvider is the upstream source of hourly prices and daily averages.
// clients/priceprovider implements this against a real day-ahead market.
type PriceProvider interface {
	HourlyPrices(ctx context.Context) ([]domain.PriceInfo, error)
	DailyPrices(ctx context.Context) ([]DailyPrice, error)
	CurrentPrice(ctx context.Context) (domain.PriceInfo, error)
}

// Cache derives PriceLevel for hourly prices and persists them, falling
// back to the upstream provider when the store has no cached answer.
type Cache struct {
	provider PriceProvider
	prices   store.PriceStore
	now      func() time.Time
}

// New builds a Cache. now defaults to time.Now if nil.
func New(provider PriceProvider, prices store.PriceStore, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{provider: provider, prices: prices, now: now}
}

// Refresh fetches the provider's hourly and daily prices, derives our own
// PriceLevel for each hourly entry and stores the result. Called by
// cmd/heatd's price refresh loop, once at startup and then periodically.
func (c *Cache) Refresh(ctx context.Context) error {
	hourly, err := c.provider.HourlyPrices(ctx)
	if err != nil {
		return err
	}
	daily, err := c.provider.DailyPrices(ctx)
	if err != nil {
		return err
	}
	derived := CalculatePriceLevels(daily, hourly, c.now())
	return c.prices.InsertPrices(ctx, derived)
}

// CurrentPrice returns the price for the current hour, preferring the
// store (so a derived PriceLevel is present) and falling back to the
// upstream provider's hint without persisting it, per spec §4.F.
func (c *Cache) CurrentPrice(ctx context.Context) (domain.PriceInfo, error) {
	if p, err := c.prices.PriceAt(ctx, c.now()); err == nil && p != nil {
		return *p, nil
	} else if err != nil {
		return domain.PriceInfo{}, err
	}
	slog.Warn("no cached price for current hour, falling back to provider")
	return c.provider.CurrentPrice(ctx)
}

// CalculatePriceLevels derives a PriceLevel for every hourly price by
// blending a daily-median-relative ratio bucket (weight 2) with the
// provider's own hourly hint (weight 1), rounding to the nearest index.
// If the daily prices are empty, stale (more than two days old) or their
// median is non-positive, the hourly prices are returned unmodified — the
// caller falls back entirely to ExtPriceLevel via PriceInfo.EffectiveLevel.
func CalculatePriceLevels(daily []DailyPrice, hourly []domain.PriceInfo, now time.Time) []domain.PriceInfo {
	if len(daily) == 0 {
		slog.Warn("no daily prices available, skipping price level derivation")
		return hourly
	}

	sorted := make([]DailyPrice, len(daily))
	copy(sorted, daily)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Total < sorted[j].Total })

	newest := sorted[0]
	for _, d := range sorted {
		if d.StartsAt.After(newest.StartsAt) {
			newest = d
		}
	}
	if newest.StartsAt.Before(now.Add(-48 * time.Hour)) {
		slog.Warn("daily prices are stale, skipping price level derivation")
		return hourly
	}

	median := sorted[len(sorted)/2].Total
	if median <= 0 {
		slog.Warn("daily median price is zero or negative, skipping price level derivation")
		return hourly
	}

	slog.Info("deriving price levels", "daily_median", median)

	out := make([]domain.PriceInfo, len(hourly))
	for i, p := range hourly {
		level := blendLevel(p, median)
		out[i] = p
		out[i].PriceLevel = &level
	}
	return out
}

// blendLevel implements the ratio-bucket-then-blend formula: a daily level
// from amount/median thresholds, blended 2:1 against the provider's hourly
// hint and rounded to the nearest ordinal index.
func blendLevel(p domain.PriceInfo, median float64) domain.PriceLevel {
	amount, _ := p.Amount.Float64()
	ratio := amount / median

	var daily domain.PriceLevel
	switch {
	case ratio < 0.5:
		daily = domain.VeryCheap
	case ratio < 0.85:
		daily = domain.Cheap
	case ratio < 1.15:
		daily = domain.Normal
	case ratio < 1.5:
		daily = domain.Expensive
	default:
		daily = domain.VeryExpensive
	}

	dailyIdx := float64(pricelevel.IndexOf(daily))
	hourlyIdx := float64(pricelevel.IndexOf(p.ExtPriceLevel))
	actual := int(math.Round((2*dailyIdx + hourlyIdx) / 3))
	return pricelevel.FromIndex(actual)
}
