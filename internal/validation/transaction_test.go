package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mverdier/equitrack/internal/api/request"
)

func validCreateTransaction() request.CreateTransactionRequest {
	return request.CreateTransactionRequest{
		Ticker:   "AAPL",
		Type:     "buy",
		Quantity: decimal.NewFromInt(10),
		Price:    decimal.NewFromInt(100),
		Fee:      decimal.NewFromInt(1),
		Date:     "2024-01-15",
	}
}

func TestValidateCreateTransaction(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		if err := ValidateCreateTransaction(validCreateTransaction()); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("accepts a zero fee", func(t *testing.T) {
		req := validCreateTransaction()
		req.Fee = decimal.Zero
		if err := ValidateCreateTransaction(req); err != nil {
			t.Errorf("Expected no error for zero fee, got %v", err)
		}
	})

	t.Run("rejects bad field values", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*request.CreateTransactionRequest)
			field  string
		}{
			{"missing ticker", func(r *request.CreateTransactionRequest) { r.Ticker = " " }, "ticker"},
			{"unknown type", func(r *request.CreateTransactionRequest) { r.Type = "hold" }, "type"},
			{"missing type", func(r *request.CreateTransactionRequest) { r.Type = "" }, "type"},
			{"zero quantity", func(r *request.CreateTransactionRequest) { r.Quantity = decimal.Zero }, "quantity"},
			{"negative price", func(r *request.CreateTransactionRequest) { r.Price = decimal.NewFromInt(-1) }, "price"},
			{"negative fee", func(r *request.CreateTransactionRequest) { r.Fee = decimal.NewFromInt(-1) }, "fee"},
			{"bad date", func(r *request.CreateTransactionRequest) { r.Date = "15/01/2024" }, "date"},
			{"missing date", func(r *request.CreateTransactionRequest) { r.Date = "" }, "date"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validCreateTransaction()
				tc.mutate(&req)

				err := ValidateCreateTransaction(req)
				if err == nil {
					t.Fatal("Expected validation error, got nil")
				}

				var vErr *Error
				if !errors.As(err, &vErr) {
					t.Fatalf("Expected validation Error, got %T", err)
				}
				if _, ok := vErr.Fields[tc.field]; !ok {
					t.Errorf("Expected error on field %q, got %v", tc.field, vErr.Fields)
				}
			})
		}
	})
}

func TestValidateUpdateTransaction(t *testing.T) {
	t.Run("accepts an empty update", func(t *testing.T) {
		if err := ValidateUpdateTransaction(request.UpdateTransactionRequest{}); err != nil {
			t.Errorf("Expected no error for empty update, got %v", err)
		}
	})

	t.Run("rejects an invalid provided field", func(t *testing.T) {
		badType := "hold"
		err := ValidateUpdateTransaction(request.UpdateTransactionRequest{Type: &badType})
		if err == nil {
			t.Fatal("Expected validation error, got nil")
		}
	})

	t.Run("rejects a provided zero quantity", func(t *testing.T) {
		zero := decimal.Zero
		err := ValidateUpdateTransaction(request.UpdateTransactionRequest{Quantity: &zero})
		if err == nil {
			t.Fatal("Expected validation error, got nil")
		}
	})
}
