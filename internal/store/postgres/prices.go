package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/madssf/smart-home/internal/domain"
)

// InsertPrices replaces each price's row by starts_at, matching the
// delete-then-insert upsert the original price importer used rather than
// an ON CONFLICT clause, since ext_price_level may legitimately be revised
// by a later fetch for the same hour.
func (s *Store) InsertPrices(ctx context.Context, prices []domain.PriceInfo) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: insert prices: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range prices {
		if _, err := tx.Exec(ctx, `DELETE FROM prices WHERE starts_at = $1`, p.StartsAt); err != nil {
			return fmt.Errorf("postgres: insert prices: delete: %w", err)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO prices (starts_at, amount, currency, ext_price_level, price_level)
			VALUES ($1, $2, $3, $4, $5)
		`, p.StartsAt, p.Amount, p.Currency, int16(p.ExtPriceLevel), priceLevelParam(p.PriceLevel))
		if err != nil {
			return fmt.Errorf("postgres: insert prices: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: insert prices: commit: %w", err)
	}
	return nil
}

func (s *Store) PriceAt(ctx context.Context, hour time.Time) (*domain.PriceInfo, error) {
	truncated := hour.Truncate(time.Hour)
	p, err := s.scanPrice(s.pool.QueryRow(ctx, `
		SELECT starts_at, amount, currency, ext_price_level, price_level
		FROM prices WHERE starts_at = $1
	`, truncated))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: price at: %w", err)
	}
	return p, nil
}

func (s *Store) PricesFrom(ctx context.Context, from time.Time) ([]domain.PriceInfo, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT starts_at, amount, currency, ext_price_level, price_level
		FROM prices WHERE starts_at >= $1 ORDER BY starts_at
	`, from)
	if err != nil {
		return nil, fmt.Errorf("postgres: prices from: %w", err)
	}
	defer rows.Close()

	var prices []domain.PriceInfo
	for rows.Next() {
		p, err := s.scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan price: %w", err)
		}
		prices = append(prices, *p)
	}
	return prices, rows.Err()
}

func (s *Store) scanPrice(row interface{ Scan(...any) error }) (*domain.PriceInfo, error) {
	var p domain.PriceInfo
	var extLevel int16
	var level *int16
	if err := row.Scan(&p.StartsAt, &p.Amount, &p.Currency, &extLevel, &level); err != nil {
		return nil, err
	}
	p.ExtPriceLevel = domain.PriceLevel(extLevel)
	if level != nil {
		l := domain.PriceLevel(*level)
		p.PriceLevel = &l
	}
	return &p, nil
}

func priceLevelParam(level *domain.PriceLevel) any {
	if level == nil {
		return nil
	}
	return int16(*level)
}
