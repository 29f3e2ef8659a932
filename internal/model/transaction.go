package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction kinds. A transaction is either an acquisition or a disposal;
// per-order fees are carried on the transaction itself.
const (
	TransactionBuy  = "buy"
	TransactionSell = "sell"
)

// Transaction represents a single buy or sell order for a ticker.
// TotalCost is derived at creation time: quantity*price+fee for a buy
// (fee increases the cost basis), quantity*price-fee for a sell (fee
// reduces the proceeds).
type Transaction struct {
	ID          string          `json:"id"`
	Ticker      string          `json:"ticker"`
	CompanyName string          `json:"companyName"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Fee         decimal.Decimal `json:"fee"`
	Date        time.Time       `json:"date"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}

// GrossAmount returns quantity * price, before fees.
func (t Transaction) GrossAmount() decimal.Decimal {
	return t.Quantity.Mul(t.Price)
}

// ComputeTotalCost returns the fee-adjusted total for the transaction type.
func ComputeTotalCost(txType string, quantity, price, fee decimal.Decimal) decimal.Decimal {
	gross := quantity.Mul(price)
	if txType == TransactionSell {
		return gross.Sub(fee)
	}
	return gross.Add(fee)
}
