package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the current holding for one ticker: the sum of the remaining
// lot quantities and their weighted-average unit cost (PRU). Positions are
// derived from the open lots on every query; a fully closed ticker has no
// Position at all rather than a zero row.
type Position struct {
	Ticker        string          `json:"ticker"`
	CompanyName   string          `json:"companyName"`
	Quantity      decimal.Decimal `json:"quantity"`
	AverageCost   decimal.Decimal `json:"averageCost"`
	TotalInvested decimal.Decimal `json:"totalInvested"`
}

// PositionValuation joins a Position with the latest market quote. The
// unrealized fields are nil when no usable price is available; they are
// never defaulted to zero.
type PositionValuation struct {
	Position
	CurrentPrice      *decimal.Decimal `json:"currentPrice,omitempty"`
	CurrentValue      *decimal.Decimal `json:"currentValue,omitempty"`
	UnrealizedGain    *decimal.Decimal `json:"unrealizedGain,omitempty"`
	UnrealizedGainPct *decimal.Decimal `json:"unrealizedGainPercent,omitempty"`
	PriceFreshness    string           `json:"priceFreshness"`
	PriceLastUpdated  *time.Time       `json:"priceLastUpdated,omitempty"`
}
