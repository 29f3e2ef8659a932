package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout frequencies inferred from a ticker's dividend history.
const (
	FrequencyQuarterly  = "quarterly"
	FrequencySemiAnnual = "semi-annual"
	FrequencyAnnual     = "annual"
)

// DividendEvent is one historical per-share payout reported by the market
// data provider, keyed by its ex-dividend date.
type DividendEvent struct {
	Ticker         string          `json:"ticker"`
	Date           time.Time       `json:"date"`
	AmountPerShare decimal.Decimal `json:"amountPerShare"`
}

// DividendEstimate projects a ticker's next payout from its history: the
// inferred frequency sets the next ex-date, the amount averages the most
// recent payouts. Confidence reflects how much history backs the estimate.
type DividendEstimate struct {
	Ticker          string          `json:"ticker"`
	EstimatedExDate time.Time       `json:"estimatedExDate"`
	EstimatedAmount decimal.Decimal `json:"estimatedAmount"`
	Frequency       string          `json:"frequency"`
	Confidence      string          `json:"confidence"`
}
