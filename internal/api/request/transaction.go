package request

import "github.com/shopspring/decimal"

// CreateTransactionRequest is the request body for recording a buy or sell.
// Decimal fields accept JSON numbers or quoted decimal strings.
type CreateTransactionRequest struct {
	Ticker      string          `json:"ticker"`
	CompanyName string          `json:"companyName,omitempty"`
	Type        string          `json:"type"` // "buy" or "sell"
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Fee         decimal.Decimal `json:"fee"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Note        string          `json:"note,omitempty"`
}

// UpdateTransactionRequest is the request body for editing a recorded
// transaction. All fields are optional; only provided fields are updated.
type UpdateTransactionRequest struct {
	Ticker      *string          `json:"ticker,omitempty"`
	CompanyName *string          `json:"companyName,omitempty"`
	Type        *string          `json:"type,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Fee         *decimal.Decimal `json:"fee,omitempty"`
	Date        *string          `json:"date,omitempty"`
	Note        *string          `json:"note,omitempty"`
}
