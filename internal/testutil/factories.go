package testutil

import (
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mverdier/equitrack/internal/model"
)

// MakeID generates a unique UUID for test entities.
func MakeID() string {
	return uuid.New().String()
}

// insertSeq spaces out created_at values so that same-day transactions
// keep their insertion order during FIFO replay.
var insertSeq int64

func nextCreatedAt() time.Time {
	n := atomic.AddInt64(&insertSeq, 1)
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Second)
}

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	// Simple creation with defaults (buy 10 AAPL @ 100)
//	tx := testutil.NewTransaction().Build(t, db)
//
//	// Customized transaction
//	tx := testutil.NewTransaction().
//	    WithTicker("MC.PA").
//	    Sell().
//	    WithQuantity("5").
//	    WithPrice("150").
//	    WithDate("2024-03-01").
//	    Build(t, db)
type TransactionBuilder struct {
	ID          string
	Ticker      string
	CompanyName string
	Type        string
	Quantity    string
	Price       string
	Fee         string
	Date        string
	Note        string
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction() *TransactionBuilder {
	return &TransactionBuilder{
		ID:          MakeID(),
		Ticker:      "AAPL",
		CompanyName: "Apple Inc.",
		Type:        model.TransactionBuy,
		Quantity:    "10",
		Price:       "100",
		Fee:         "0",
		Date:        "2024-01-15",
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithTicker sets a custom ticker.
func (b *TransactionBuilder) WithTicker(ticker string) *TransactionBuilder {
	b.Ticker = ticker
	return b
}

// WithCompanyName sets a custom company name.
func (b *TransactionBuilder) WithCompanyName(name string) *TransactionBuilder {
	b.CompanyName = name
	return b
}

// Buy marks the transaction as a buy.
func (b *TransactionBuilder) Buy() *TransactionBuilder {
	b.Type = model.TransactionBuy
	return b
}

// Sell marks the transaction as a sell.
func (b *TransactionBuilder) Sell() *TransactionBuilder {
	b.Type = model.TransactionSell
	return b
}

// WithQuantity sets a custom quantity (decimal string).
func (b *TransactionBuilder) WithQuantity(quantity string) *TransactionBuilder {
	b.Quantity = quantity
	return b
}

// WithPrice sets a custom per-share price (decimal string).
func (b *TransactionBuilder) WithPrice(price string) *TransactionBuilder {
	b.Price = price
	return b
}

// WithFee sets a custom fee (decimal string).
func (b *TransactionBuilder) WithFee(fee string) *TransactionBuilder {
	b.Fee = fee
	return b
}

// WithDate sets a custom transaction date (YYYY-MM-DD).
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	b.Date = date
	return b
}

// WithNote sets a custom note.
func (b *TransactionBuilder) WithNote(note string) *TransactionBuilder {
	b.Note = note
	return b
}

// Build inserts the transaction into the database and returns the model.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	quantity := mustDecimal(t, b.Quantity)
	price := mustDecimal(t, b.Price)
	fee := mustDecimal(t, b.Fee)
	date, err := time.Parse("2006-01-02", b.Date)
	if err != nil {
		t.Fatalf("Invalid transaction date %q: %v", b.Date, err)
	}

	tx := model.Transaction{
		ID:          b.ID,
		Ticker:      b.Ticker,
		CompanyName: b.CompanyName,
		Type:        b.Type,
		Quantity:    quantity,
		Price:       price,
		Fee:         fee,
		Date:        date,
		TotalCost:   model.ComputeTotalCost(b.Type, quantity, price, fee),
		Note:        b.Note,
		CreatedAt:   nextCreatedAt(),
	}

	_, err = db.Exec(`
		INSERT INTO ledger_transaction
		(id, ticker, company_name, type, quantity, price, fee, date, total_cost, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Ticker, tx.CompanyName, tx.Type,
		tx.Quantity.String(), tx.Price.String(), tx.Fee.String(),
		tx.Date.Format("2006-01-02"), tx.TotalCost.String(), tx.Note,
		tx.CreatedAt.Format(time.RFC3339Nano), tx.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("Failed to insert test transaction: %v", err)
	}

	return tx
}

// DividendBuilder provides a fluent interface for creating test dividends.
//
// Example usage:
//
//	dividend := testutil.NewDividend().
//	    WithTicker("TTE.PA").
//	    WithAmountPerShare("0.74").
//	    WithSharesOwned("50").
//	    Received("2024-06-20").
//	    Build(t, db)
type DividendBuilder struct {
	ID             string
	Ticker         string
	CompanyName    string
	AmountPerShare string
	SharesOwned    string
	TaxWithheld    string
	ExDividendDate string
	PaymentDate    string
	Status         string
	ReceivedDate   string
	Note           string
}

// NewDividend creates a DividendBuilder with sensible defaults.
func NewDividend() *DividendBuilder {
	return &DividendBuilder{
		ID:             MakeID(),
		Ticker:         "AAPL",
		CompanyName:    "Apple Inc.",
		AmountPerShare: "0.25",
		SharesOwned:    "10",
		TaxWithheld:    "0",
		ExDividendDate: "2024-05-10",
		Status:         model.DividendExpected,
	}
}

// WithTicker sets a custom ticker.
func (b *DividendBuilder) WithTicker(ticker string) *DividendBuilder {
	b.Ticker = ticker
	return b
}

// WithAmountPerShare sets a custom per-share amount (decimal string).
func (b *DividendBuilder) WithAmountPerShare(amount string) *DividendBuilder {
	b.AmountPerShare = amount
	return b
}

// WithSharesOwned sets a custom share count (decimal string).
func (b *DividendBuilder) WithSharesOwned(shares string) *DividendBuilder {
	b.SharesOwned = shares
	return b
}

// WithTaxWithheld sets a custom withheld tax amount (decimal string).
func (b *DividendBuilder) WithTaxWithheld(tax string) *DividendBuilder {
	b.TaxWithheld = tax
	return b
}

// WithExDividendDate sets a custom ex-dividend date (YYYY-MM-DD).
func (b *DividendBuilder) WithExDividendDate(date string) *DividendBuilder {
	b.ExDividendDate = date
	return b
}

// WithPaymentDate sets a custom payment date (YYYY-MM-DD).
func (b *DividendBuilder) WithPaymentDate(date string) *DividendBuilder {
	b.PaymentDate = date
	return b
}

// Received marks the dividend as received on the given date (YYYY-MM-DD).
func (b *DividendBuilder) Received(date string) *DividendBuilder {
	b.Status = model.DividendReceived
	b.ReceivedDate = date
	return b
}

// Build inserts the dividend into the database and returns the model.
func (b *DividendBuilder) Build(t *testing.T, db *sql.DB) model.Dividend {
	t.Helper()

	amount := mustDecimal(t, b.AmountPerShare)
	shares := mustDecimal(t, b.SharesOwned)
	withheld := mustDecimal(t, b.TaxWithheld)
	gross := amount.Mul(shares)

	exDate, err := time.Parse("2006-01-02", b.ExDividendDate)
	if err != nil {
		t.Fatalf("Invalid ex-dividend date %q: %v", b.ExDividendDate, err)
	}

	dividend := model.Dividend{
		ID:             b.ID,
		Ticker:         b.Ticker,
		CompanyName:    b.CompanyName,
		AmountPerShare: amount,
		ExDividendDate: exDate,
		SharesOwned:    shares,
		GrossAmount:    gross,
		TaxWithheld:    withheld,
		NetAmount:      gross.Sub(withheld),
		Status:         b.Status,
		Note:           b.Note,
		CreatedAt:      nextCreatedAt(),
	}
	dividend.PaymentDate = parseOptionalDate(t, b.PaymentDate)
	dividend.ReceivedDate = parseOptionalDate(t, b.ReceivedDate)

	_, err = db.Exec(`
		INSERT INTO dividend
		(id, ticker, company_name, amount_per_share, ex_dividend_date, payment_date,
		 shares_owned, gross_amount, tax_withheld, net_amount, status, received_date,
		 note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		dividend.ID, dividend.Ticker, dividend.CompanyName,
		dividend.AmountPerShare.String(), dividend.ExDividendDate.Format("2006-01-02"),
		formatOptionalDate(dividend.PaymentDate),
		dividend.SharesOwned.String(), dividend.GrossAmount.String(),
		dividend.TaxWithheld.String(), dividend.NetAmount.String(),
		dividend.Status, formatOptionalDate(dividend.ReceivedDate), dividend.Note,
		dividend.CreatedAt.Format(time.RFC3339Nano), dividend.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("Failed to insert test dividend: %v", err)
	}

	return dividend
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("Invalid decimal %q: %v", value, err)
	}
	return d
}

func parseOptionalDate(t *testing.T, value string) *time.Time {
	t.Helper()
	if value == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("Invalid date %q: %v", value, err)
	}
	return &parsed
}

func formatOptionalDate(date *time.Time) interface{} {
	if date == nil {
		return nil
	}
	return date.Format("2006-01-02")
}
