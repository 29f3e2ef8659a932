// Package fifo derives open lots, realized gains and positions from a
// ticker's transaction history. Every function is a pure computation over
// an ordered transaction sequence; nothing here touches storage, so results
// are deterministic and can be recomputed from the ledger at any time.
package fifo

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mverdier/equitrack/internal/apperrors"
	"github.com/mverdier/equitrack/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Result is the outcome of replaying one ticker's transaction history:
// one realized gain per sell, in sell order, plus the lots still open
// after the last transaction.
type Result struct {
	Gains    []model.RealizedGain
	OpenLots []model.Lot
}

// OpenQuantity returns the total quantity across the open lots.
func (r Result) OpenQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range r.OpenLots {
		total = total.Add(lot.RemainingQuantity)
	}
	return total
}

// Replay consumes a single ticker's transactions in ledger order (ascending
// date, insertion order on ties, as the ledger guarantees) and matches every
// sell against the oldest open lots first.
//
// Each buy opens a lot whose unit cost amortizes the per-order fee over the
// buy's quantity. Each sell consumes lots front to back, partially closing
// the last lot touched when the sale does not exhaust it. Proceeds are net
// of the sale's own fee.
//
// A sell whose quantity exceeds the total open quantity fails the whole
// replay with ErrInsufficientQuantity; no partial matching is kept.
func Replay(transactions []model.Transaction) (Result, error) {
	var (
		open  []model.Lot
		gains []model.RealizedGain
	)

	for _, tx := range transactions {
		switch tx.Type {
		case model.TransactionBuy:
			open = append(open, model.Lot{
				Ticker:            tx.Ticker,
				BuyTransactionID:  tx.ID,
				RemainingQuantity: tx.Quantity,
				UnitCost:          tx.TotalCost.Div(tx.Quantity),
				AcquisitionDate:   tx.Date,
			})

		case model.TransactionSell:
			gain, remaining, err := consume(open, tx)
			if err != nil {
				return Result{}, err
			}
			gains = append(gains, gain)
			open = remaining

		default:
			return Result{}, fmt.Errorf("unknown transaction type %q (transaction %s)", tx.Type, tx.ID)
		}
	}

	return Result{Gains: gains, OpenLots: open}, nil
}

// consume matches one sell against the open lots, front to back.
func consume(open []model.Lot, sell model.Transaction) (model.RealizedGain, []model.Lot, error) {
	held := decimal.Zero
	for _, lot := range open {
		held = held.Add(lot.RemainingQuantity)
	}
	if sell.Quantity.GreaterThan(held) {
		return model.RealizedGain{}, nil, fmt.Errorf(
			"%w: ticker %s transaction %s: selling %s, holding %s",
			apperrors.ErrInsufficientQuantity, sell.Ticker, sell.ID, sell.Quantity, held,
		)
	}

	var (
		remaining []model.Lot
		consumed  []string
		costBasis = decimal.Zero
		toSell    = sell.Quantity
	)

	for _, lot := range open {
		if toSell.IsZero() {
			remaining = append(remaining, lot)
			continue
		}

		consumed = append(consumed, lot.BuyTransactionID)

		if lot.RemainingQuantity.GreaterThan(toSell) {
			// Partial close: the lot survives with reduced quantity.
			costBasis = costBasis.Add(toSell.Mul(lot.UnitCost))
			lot.RemainingQuantity = lot.RemainingQuantity.Sub(toSell)
			remaining = append(remaining, lot)
			toSell = decimal.Zero
		} else {
			costBasis = costBasis.Add(lot.RemainingCost())
			toSell = toSell.Sub(lot.RemainingQuantity)
		}
	}

	proceeds := sell.TotalCost
	gain := proceeds.Sub(costBasis)

	gainPercent := decimal.Zero
	if costBasis.IsPositive() {
		gainPercent = gain.Div(costBasis).Mul(hundred)
	}

	return model.RealizedGain{
		Ticker:            sell.Ticker,
		SaleTransactionID: sell.ID,
		SaleDate:          sell.Date,
		Quantity:          sell.Quantity,
		Proceeds:          proceeds,
		CostBasis:         costBasis,
		Gain:              gain,
		GainPercent:       gainPercent,
		ConsumedLots:      consumed,
	}, remaining, nil
}
