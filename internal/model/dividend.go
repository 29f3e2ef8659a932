package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dividend statuses. An expected dividend has been announced but not paid
// out yet; a received dividend has landed on the account.
const (
	DividendExpected = "expected"
	DividendReceived = "received"
)

// Dividend represents a dividend payment for a held ticker.
// GrossAmount is AmountPerShare * SharesOwned at the ex-dividend date;
// NetAmount is the gross amount minus any tax withheld at source.
type Dividend struct {
	ID             string          `json:"id"`
	Ticker         string          `json:"ticker"`
	CompanyName    string          `json:"companyName"`
	AmountPerShare decimal.Decimal `json:"amountPerShare"`
	ExDividendDate time.Time       `json:"exDividendDate"`
	PaymentDate    *time.Time      `json:"paymentDate,omitempty"`
	SharesOwned    decimal.Decimal `json:"sharesOwned"`
	GrossAmount    decimal.Decimal `json:"grossAmount"`
	TaxWithheld    decimal.Decimal `json:"taxWithheld"`
	NetAmount      decimal.Decimal `json:"netAmount"`
	Status         string          `json:"status"`
	ReceivedDate   *time.Time      `json:"receivedDate,omitempty"`
	Note           string          `json:"note,omitempty"`
	CreatedAt      time.Time       `json:"createdAt,omitempty"`
	UpdatedAt      time.Time       `json:"updatedAt,omitempty"`
}

// EffectiveDate returns the date a dividend is attributed to for annual
// reporting: the payment date when known, otherwise the ex-dividend date.
func (d Dividend) EffectiveDate() time.Time {
	if d.PaymentDate != nil {
		return *d.PaymentDate
	}
	return d.ExDividendDate
}
