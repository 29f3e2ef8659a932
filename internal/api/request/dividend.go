package request

import "github.com/shopspring/decimal"

// CreateDividendRequest is the request body for recording a dividend.
type CreateDividendRequest struct {
	Ticker         string          `json:"ticker"`
	CompanyName    string          `json:"companyName,omitempty"`
	AmountPerShare decimal.Decimal `json:"amountPerShare"`
	SharesOwned    decimal.Decimal `json:"sharesOwned"`
	TaxWithheld    decimal.Decimal `json:"taxWithheld"`
	ExDividendDate string          `json:"exDividendDate"`        // YYYY-MM-DD
	PaymentDate    string          `json:"paymentDate,omitempty"` // YYYY-MM-DD
	Status         string          `json:"status,omitempty"`      // "expected" or "received", defaults to "expected"
	Note           string          `json:"note,omitempty"`
}

// UpdateDividendRequest is the request body for editing a recorded
// dividend. All fields are optional; only provided fields are updated. An
// empty paymentDate clears the payment date.
type UpdateDividendRequest struct {
	Ticker         *string          `json:"ticker,omitempty"`
	CompanyName    *string          `json:"companyName,omitempty"`
	AmountPerShare *decimal.Decimal `json:"amountPerShare,omitempty"`
	SharesOwned    *decimal.Decimal `json:"sharesOwned,omitempty"`
	TaxWithheld    *decimal.Decimal `json:"taxWithheld,omitempty"`
	ExDividendDate *string          `json:"exDividendDate,omitempty"`
	PaymentDate    *string          `json:"paymentDate,omitempty"`
	Status         *string          `json:"status,omitempty"`
	Note           *string          `json:"note,omitempty"`
}

// MarkReceivedRequest is the request body for marking a dividend as received.
type MarkReceivedRequest struct {
	ReceivedDate string `json:"receivedDate"` // YYYY-MM-DD
}
