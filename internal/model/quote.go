package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price freshness reported alongside every quote. A quote is fresh while it
// is inside the cache TTL window, stale between the TTL and the maximum
// cache age, and unavailable beyond that (or when it was never fetched).
const (
	PriceFresh       = "fresh"
	PriceStale       = "stale"
	PriceUnavailable = "unavailable"
)

// Quote is the latest known market price for a ticker.
type Quote struct {
	Ticker        string          `json:"ticker"`
	Price         decimal.Decimal `json:"price"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	Currency      string          `json:"currency"`
	FetchedAt     time.Time       `json:"fetchedAt"`
	Freshness     string          `json:"freshness"`
}

// PricePoint is a single day of price history.
type PricePoint struct {
	Ticker string          `json:"ticker"`
	Date   time.Time       `json:"date"`
	Close  decimal.Decimal `json:"close"`
}
