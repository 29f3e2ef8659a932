package tax

import (
	"github.com/shopspring/decimal"

	"github.com/mverdier/equitrack/internal/model"
)

// Engine computes and compares tax liabilities for a year's realized gains
// and gross dividends. It holds nothing but the immutable Config; the flat
// and progressive computations are independent of each other and of any
// shared state.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine with the provided configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Flat computes the liability under the flat-rate regime. The liability is
// (gains + dividends) * flat rate, decomposed into its income-tax and
// social-levy components; the deductible CSG slice is reported alongside.
func (e *Engine) Flat(gains, dividends decimal.Decimal) model.FlatTaxResult {
	base := gains.Add(dividends)

	incomeTax := base.Mul(e.cfg.FlatIncomeShare)
	social := base.Mul(e.cfg.FlatSocialShare)

	return model.FlatTaxResult{
		TaxableBase:      base,
		IncomeTax:        incomeTax,
		SocialLevies:     social,
		DeductibleSocial: base.Mul(e.cfg.SocialDeductibleRate),
		TotalTax:         incomeTax.Add(social),
	}
}

// Progressive computes the liability under the progressive regime.
// Dividends enter the taxable base reduced by the allowance fraction,
// gains enter in full; the bracket scale is applied marginally. Social
// levies apply to the full unreduced amounts, outside the brackets.
func (e *Engine) Progressive(gains, dividends decimal.Decimal) model.ProgressiveTaxResult {
	allowance := dividends.Mul(e.cfg.DividendAllowance)
	taxable := gains.Add(dividends.Sub(allowance))

	incomeTax := e.bracketTax(taxable)
	social := gains.Add(dividends).Mul(e.cfg.SocialLevyRate)

	return model.ProgressiveTaxResult{
		DividendAllowance: allowance,
		TaxableBase:       taxable,
		IncomeTax:         incomeTax,
		SocialLevies:      social,
		TotalTax:          incomeTax.Add(social),
	}
}

// bracketTax applies the marginal scale: each bracket taxes only the slice
// of income between its lower bound and the next bracket's lower bound.
func (e *Engine) bracketTax(income decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}

	total := decimal.Zero
	for i, bracket := range e.cfg.Brackets {
		if income.LessThanOrEqual(bracket.LowerBound) {
			break
		}

		upper := income
		if i+1 < len(e.cfg.Brackets) && e.cfg.Brackets[i+1].LowerBound.LessThan(income) {
			upper = e.cfg.Brackets[i+1].LowerBound
		}

		total = total.Add(upper.Sub(bracket.LowerBound).Mul(bracket.Rate))
	}
	return total
}

// Compare runs both regimes over the same amounts and selects the one with
// the lower total liability. Ties resolve to the flat regime, which needs
// no annual election.
func (e *Engine) Compare(year int, gains, dividends decimal.Decimal) model.TaxYearSummary {
	flat := e.Flat(gains, dividends)
	progressive := e.Progressive(gains, dividends)

	best := model.RegimeFlat
	if progressive.TotalTax.LessThan(flat.TotalTax) {
		best = model.RegimeProgressive
	}

	return model.TaxYearSummary{
		Year:           year,
		RealizedGains:  gains,
		GrossDividends: dividends,
		Flat:           flat,
		Progressive:    progressive,
		BestRegime:     best,
		Savings:        flat.TotalTax.Sub(progressive.TotalTax).Abs(),
	}
}
