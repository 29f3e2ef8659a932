package fifo

import (
	"github.com/shopspring/decimal"

	"github.com/mverdier/equitrack/internal/model"
)

// Aggregate derives the current position for one ticker from its open lots.
// The average cost is the quantity-weighted mean of the lot unit costs
// (fee-inclusive), so it is insensitive to the order lots are supplied in.
// Returns false when nothing is held: a fully closed ticker has no position.
func Aggregate(ticker, companyName string, open []model.Lot) (model.Position, bool) {
	quantity := decimal.Zero
	invested := decimal.Zero

	for _, lot := range open {
		quantity = quantity.Add(lot.RemainingQuantity)
		invested = invested.Add(lot.RemainingCost())
	}

	if !quantity.IsPositive() {
		return model.Position{}, false
	}

	return model.Position{
		Ticker:        ticker,
		CompanyName:   companyName,
		Quantity:      quantity,
		AverageCost:   invested.Div(quantity),
		TotalInvested: invested,
	}, true
}
