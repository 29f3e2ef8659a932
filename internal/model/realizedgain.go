package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RealizedGain is the outcome of matching one sell transaction against the
// open lots of its ticker, oldest lot first. Proceeds are net of the sale's
// own fee; CostBasis is the fee-inclusive cost of the consumed lot slices.
// Records are recomputed from the ledger on demand and never stored.
type RealizedGain struct {
	Ticker            string          `json:"ticker"`
	SaleTransactionID string          `json:"saleTransactionId"`
	SaleDate          time.Time       `json:"saleDate"`
	Quantity          decimal.Decimal `json:"quantity"`
	Proceeds          decimal.Decimal `json:"proceeds"`
	CostBasis         decimal.Decimal `json:"costBasis"`
	Gain              decimal.Decimal `json:"gain"`
	GainPercent       decimal.Decimal `json:"gainPercent"`
	ConsumedLots      []string        `json:"consumedLots"`
}
