package model

import "github.com/shopspring/decimal"

// Tax regime identifiers.
const (
	RegimeFlat        = "flat"
	RegimeProgressive = "progressive"
)

// FlatTaxResult is the liability under the flat-rate regime, decomposed
// into its income-tax and social-levy components. DeductibleSocial is the
// fraction of the social levies that would be deductible from the following
// year's progressive taxable income; it is informational only and never
// applied automatically.
type FlatTaxResult struct {
	TaxableBase      decimal.Decimal `json:"taxableBase"`
	IncomeTax        decimal.Decimal `json:"incomeTax"`
	SocialLevies     decimal.Decimal `json:"socialLevies"`
	DeductibleSocial decimal.Decimal `json:"deductibleSocial"`
	TotalTax         decimal.Decimal `json:"totalTax"`
}

// ProgressiveTaxResult is the liability under the progressive-bracket
// regime. Dividends enter the taxable base reduced by the allowance
// fraction; gains enter in full. Social levies are computed on the full
// unreduced amounts and added on top of the bracket income tax.
type ProgressiveTaxResult struct {
	DividendAllowance decimal.Decimal `json:"dividendAllowance"`
	TaxableBase       decimal.Decimal `json:"taxableBase"`
	IncomeTax         decimal.Decimal `json:"incomeTax"`
	SocialLevies      decimal.Decimal `json:"socialLevies"`
	TotalTax          decimal.Decimal `json:"totalTax"`
}

// TaxYearSummary compares both regimes for one tax year. BestRegime is the
// regime with the lower total liability, flat on ties; Savings is the
// absolute difference between the two totals.
type TaxYearSummary struct {
	Year           int                  `json:"year"`
	RealizedGains  decimal.Decimal      `json:"realizedGains"`
	GrossDividends decimal.Decimal      `json:"grossDividends"`
	Flat           FlatTaxResult        `json:"flat"`
	Progressive    ProgressiveTaxResult `json:"progressive"`
	BestRegime     string               `json:"bestRegime"`
	Savings        decimal.Decimal      `json:"savings"`
}
