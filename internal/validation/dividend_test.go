package validation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mverdier/equitrack/internal/api/request"
)

func validCreateDividend() request.CreateDividendRequest {
	return request.CreateDividendRequest{
		Ticker:         "TTE.PA",
		AmountPerShare: decimal.RequireFromString("0.74"),
		SharesOwned:    decimal.NewFromInt(50),
		TaxWithheld:    decimal.Zero,
		ExDividendDate: "2024-06-01",
	}
}

func TestValidateCreateDividend(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		if err := ValidateCreateDividend(validCreateDividend()); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("accepts an optional payment date and status", func(t *testing.T) {
		req := validCreateDividend()
		req.PaymentDate = "2024-06-15"
		req.Status = "received"
		if err := ValidateCreateDividend(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects bad field values", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*request.CreateDividendRequest)
		}{
			{"missing ticker", func(r *request.CreateDividendRequest) { r.Ticker = "" }},
			{"zero amount", func(r *request.CreateDividendRequest) { r.AmountPerShare = decimal.Zero }},
			{"zero shares", func(r *request.CreateDividendRequest) { r.SharesOwned = decimal.Zero }},
			{"negative withheld tax", func(r *request.CreateDividendRequest) { r.TaxWithheld = decimal.NewFromInt(-1) }},
			{"bad ex-dividend date", func(r *request.CreateDividendRequest) { r.ExDividendDate = "June 1st" }},
			{"bad payment date", func(r *request.CreateDividendRequest) { r.PaymentDate = "June 15th" }},
			{"unknown status", func(r *request.CreateDividendRequest) { r.Status = "pending" }},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validCreateDividend()
				tc.mutate(&req)

				if err := ValidateCreateDividend(req); err == nil {
					t.Fatal("Expected validation error, got nil")
				}
			})
		}
	})
}

func TestValidateUpdateDividend(t *testing.T) {
	t.Run("accepts an empty update", func(t *testing.T) {
		if err := ValidateUpdateDividend(request.UpdateDividendRequest{}); err != nil {
			t.Errorf("Expected no error for empty update, got %v", err)
		}
	})

	t.Run("accepts an empty payment date to clear it", func(t *testing.T) {
		empty := ""
		if err := ValidateUpdateDividend(request.UpdateDividendRequest{PaymentDate: &empty}); err != nil {
			t.Errorf("Expected no error for cleared payment date, got %v", err)
		}
	})

	t.Run("rejects an invalid provided status", func(t *testing.T) {
		bad := "pending"
		if err := ValidateUpdateDividend(request.UpdateDividendRequest{Status: &bad}); err == nil {
			t.Fatal("Expected validation error, got nil")
		}
	})
}

func TestValidateMarkReceived(t *testing.T) {
	if err := ValidateMarkReceived(request.MarkReceivedRequest{ReceivedDate: "2024-06-20"}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := ValidateMarkReceived(request.MarkReceivedRequest{}); err == nil {
		t.Error("Expected validation error for missing date, got nil")
	}
}
