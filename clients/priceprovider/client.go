// Package priceprovider implements the internal/pricecache.PriceProvider
// contract against Tibber's public GraphQL API: hourly day-ahead prices,
// Tibber's own trailing daily price-rating average (used as the median
// baseline our own PriceLevel derivation blends against), and the current
// hour's price. Restructured from clients/nordpool's plain HTTP client
// shape onto a POST-body GraphQL query, with the fetch contract itself
// (today+tomorrow hourly, a daily baseline, level-hint passthrough) ported
// from original_source/service/prices.rs's fetch_and_store_prices and
// original_source/clients/tibber_client.rs.
package priceprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/madssf/smart-home/internal/domain"
	"github.com/madssf/smart-home/internal/pricecache"
)

const (
	endpoint       = "https://api.tibber.com/v1-beta/gql"
	requestTimeout = 20 * time.Second
)

// Client is a Tibber GraphQL API client scoped to a single home.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiToken   string
	homeID     string
}

// New builds a Client. apiToken is sent as a bearer token; homeID selects
// which home's subscription to query (a Tibber account may have several).
func New(apiToken, homeID string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		endpoint:   endpoint,
		apiToken:   apiToken,
		homeID:     homeID,
	}
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type priceEntry struct {
	Total    float64 `json:"total"`
	StartsAt string  `json:"startsAt"`
	Level    string  `json:"level"`
	Currency string  `json:"currency"`
}

type ratingEntry struct {
	Total    float64 `json:"total"`
	StartsAt string  `json:"startsAt"`
}

type priceQueryResponse struct {
	Data struct {
		Viewer struct {
			Home struct {
				CurrentSubscription struct {
					PriceInfo struct {
						Current  priceEntry   `json:"current"`
						Today    []priceEntry `json:"today"`
						Tomorrow []priceEntry `json:"tomorrow"`
					} `json:"priceInfo"`
				} `json:"currentSubscription"`
				PriceRating struct {
					Daily struct {
						Entries []ratingEntry `json:"entries"`
					} `json:"daily"`
				} `json:"priceRating"`
			} `json:"home"`
		} `json:"viewer"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

const pricesQuery = `
query {
  viewer {
    home(id: "%s") {
      currentSubscription {
        priceInfo {
          current { total startsAt level currency }
          today { total startsAt level currency }
          tomorrow { total startsAt level currency }
        }
      }
      priceRating {
        daily {
          entries { total startsAt }
        }
      }
    }
  }
}`

func (c *Client) fetchPriceInfo(ctx context.Context) (priceQueryResponse, error) {
	var out priceQueryResponse
	query := fmt.Sprintf(pricesQuery, c.homeID)
	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return out, fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Errors) > 0 {
		return out, fmt.Errorf("tibber API error: %s", out.Errors[0].Message)
	}
	return out, nil
}

// HourlyPrices returns every known hourly price point: the remainder of
// today plus tomorrow once Tibber has published it (typically after 13:00
// CET).
func (c *Client) HourlyPrices(ctx context.Context) ([]domain.PriceInfo, error) {
	resp, err := c.fetchPriceInfo(ctx)
	if err != nil {
		return nil, err
	}
	entries := append(resp.Data.Viewer.Home.CurrentSubscription.PriceInfo.Today,
		resp.Data.Viewer.Home.CurrentSubscription.PriceInfo.Tomorrow...)

	prices := make([]domain.PriceInfo, 0, len(entries))
	for _, e := range entries {
		p, err := toPriceInfo(e)
		if err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, nil
}

// DailyPrices returns Tibber's own trailing daily average price ratings,
// used only as the median baseline for pricecache.CalculatePriceLevels.
func (c *Client) DailyPrices(ctx context.Context) ([]pricecache.DailyPrice, error) {
	resp, err := c.fetchPriceInfo(ctx)
	if err != nil {
		return nil, err
	}
	entries := resp.Data.Viewer.Home.PriceRating.Daily.Entries
	daily := make([]pricecache.DailyPrice, 0, len(entries))
	for _, e := range entries {
		startsAt, err := time.Parse(time.RFC3339, e.StartsAt)
		if err != nil {
			return nil, fmt.Errorf("parse daily rating time %q: %w", e.StartsAt, err)
		}
		daily = append(daily, pricecache.DailyPrice{StartsAt: startsAt, Total: e.Total})
	}
	return daily, nil
}

// CurrentPrice returns the price for the hour Tibber currently reports as
// "current" — used only as the cache-miss fallback, since internal/pricecache
// otherwise prefers its own persisted, level-derived record.
func (c *Client) CurrentPrice(ctx context.Context) (domain.PriceInfo, error) {
	resp, err := c.fetchPriceInfo(ctx)
	if err != nil {
		return domain.PriceInfo{}, err
	}
	return toPriceInfo(resp.Data.Viewer.Home.CurrentSubscription.PriceInfo.Current)
}

func toPriceInfo(e priceEntry) (domain.PriceInfo, error) {
	startsAt, err := time.Parse(time.RFC3339, e.StartsAt)
	if err != nil {
		return domain.PriceInfo{}, fmt.Errorf("parse price time %q: %w", e.StartsAt, err)
	}
	return domain.PriceInfo{
		StartsAt:      startsAt,
		Amount:        decimal.NewFromFloat(e.Total),
		Currency:      e.Currency,
		ExtPriceLevel: levelFromTibber(e.Level),
	}, nil
}

// levelFromTibber maps Tibber's own level hint onto our ordinal. An
// unrecognized or empty string (Tibber omits the field when it has no
// opinion) falls back to Normal, matching original_source's treatment of
// an absent ext_price_level as the ordinal midpoint.
func levelFromTibber(level string) domain.PriceLevel {
	switch level {
	case "VERY_CHEAP":
		return domain.VeryCheap
	case "CHEAP":
		return domain.Cheap
	case "EXPENSIVE":
		return domain.Expensive
	case "VERY_EXPENSIVE":
		return domain.VeryExpensive
	default:
		return domain.Normal
	}
}
