package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot is an open acquisition slice of a position: the part of a buy
// transaction that has not been consumed by later sells. UnitCost includes
// the per-order fee amortized over the buy's original quantity, so
// RemainingQuantity * UnitCost is the remaining cost basis of the slice.
// Lots are derived from the ledger and never persisted.
type Lot struct {
	Ticker            string          `json:"ticker"`
	BuyTransactionID  string          `json:"buyTransactionId"`
	RemainingQuantity decimal.Decimal `json:"remainingQuantity"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	AcquisitionDate   time.Time       `json:"acquisitionDate"`
}

// RemainingCost returns the cost basis still carried by the lot.
func (l Lot) RemainingCost() decimal.Decimal {
	return l.RemainingQuantity.Mul(l.UnitCost)
}
