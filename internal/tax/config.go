// Package tax computes personal income-tax liability on realized gains and
// dividends under the French flat-rate regime (PFU) and the progressive
// bracket regime, and compares the two. Both computations are pure and work
// in exact decimal arithmetic; amounts are rounded only for presentation.
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bracket is one slice of the progressive scale: income above LowerBound
// (and below the next bracket's lower bound) is taxed at Rate.
type Bracket struct {
	LowerBound decimal.Decimal `json:"lowerBound"`
	Rate       decimal.Decimal `json:"rate"`
}

// Config is the immutable set of tax options supplied at engine
// construction. Changing rates never alters stored transactions, only
// future computations.
type Config struct {
	// FlatRate is the single flat rate on gains + dividends (PFU, 30%).
	FlatRate decimal.Decimal

	// FlatIncomeShare and FlatSocialShare decompose the flat rate into its
	// income-tax (12.8%) and social-levy (17.2%) components for reporting.
	// They must sum to FlatRate.
	FlatIncomeShare decimal.Decimal
	FlatSocialShare decimal.Decimal

	// SocialDeductibleRate is the slice of the social levies (6.8 of the
	// 17.2 points) that is deductible from the following year's progressive
	// taxable income. Reported as information, never applied automatically.
	SocialDeductibleRate decimal.Decimal

	// DividendAllowance is the fraction of gross dividends excluded from
	// the progressive taxable base (40%). Gains get no allowance.
	DividendAllowance decimal.Decimal

	// SocialLevyRate applies to the full gains + dividends under the
	// progressive regime, independent of the bracket calculation.
	SocialLevyRate decimal.Decimal

	// Brackets is the progressive scale, ordered by ascending lower bound.
	// The first bracket must start at zero.
	Brackets []Bracket
}

// DefaultConfig returns the French options: PFU 30% (12.8% income tax +
// 17.2% social levies, 6.8% CSG deductible), 40% dividend allowance and the
// 2024 income-tax scale.
func DefaultConfig() Config {
	return Config{
		FlatRate:             decimal.RequireFromString("0.30"),
		FlatIncomeShare:      decimal.RequireFromString("0.128"),
		FlatSocialShare:      decimal.RequireFromString("0.172"),
		SocialDeductibleRate: decimal.RequireFromString("0.068"),
		DividendAllowance:    decimal.RequireFromString("0.40"),
		SocialLevyRate:       decimal.RequireFromString("0.172"),
		Brackets: []Bracket{
			{LowerBound: decimal.Zero, Rate: decimal.Zero},
			{LowerBound: decimal.NewFromInt(11294), Rate: decimal.RequireFromString("0.11")},
			{LowerBound: decimal.NewFromInt(28797), Rate: decimal.RequireFromString("0.30")},
			{LowerBound: decimal.NewFromInt(82341), Rate: decimal.RequireFromString("0.41")},
			{LowerBound: decimal.NewFromInt(177106), Rate: decimal.RequireFromString("0.45")},
		},
	}
}

// Validate checks the structural constraints the engine relies on.
func (c Config) Validate() error {
	if !c.FlatIncomeShare.Add(c.FlatSocialShare).Equal(c.FlatRate) {
		return fmt.Errorf("flat income share %s + social share %s must equal flat rate %s",
			c.FlatIncomeShare, c.FlatSocialShare, c.FlatRate)
	}
	if c.DividendAllowance.IsNegative() || c.DividendAllowance.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("dividend allowance %s must be within [0, 1]", c.DividendAllowance)
	}
	if len(c.Brackets) == 0 {
		return fmt.Errorf("at least one bracket is required")
	}
	if !c.Brackets[0].LowerBound.IsZero() {
		return fmt.Errorf("first bracket must start at zero, got %s", c.Brackets[0].LowerBound)
	}
	for i := 1; i < len(c.Brackets); i++ {
		if !c.Brackets[i].LowerBound.GreaterThan(c.Brackets[i-1].LowerBound) {
			return fmt.Errorf("bracket lower bounds must be strictly ascending at index %d", i)
		}
	}
	return nil
}
