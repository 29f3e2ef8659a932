package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mverdier/equitrack/internal/api/request"
	"github.com/mverdier/equitrack/internal/model"
)

// ValidTransactionType contains the allowed transaction type values.
var ValidTransactionType = map[string]bool{
	model.TransactionBuy: true, model.TransactionSell: true,
}

// ValidateCreateTransaction validates a transaction creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - ticker: Must be non-empty
//   - type: Must be one of: buy, sell
//   - quantity: Must be positive
//   - price: Must be positive
//   - fee: Must be non-negative
//   - date: Must be in YYYY-MM-DD format
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	}

	validateTransactionType(errors, req.Type)
	validateDate(errors, "date", req.Date)
	validatePositive(errors, "quantity", req.Quantity)
	validatePositive(errors, "price", req.Price)
	validateNonNegative(errors, "fee", req.Fee)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateTransaction validates a transaction update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateUpdateTransaction(req request.UpdateTransactionRequest) error {
	errors := make(map[string]string)

	if req.Ticker != nil && strings.TrimSpace(*req.Ticker) == "" {
		errors["ticker"] = "ticker cannot be empty"
	}
	if req.Type != nil {
		validateTransactionType(errors, *req.Type)
	}
	if req.Date != nil {
		validateDate(errors, "date", *req.Date)
	}
	if req.Quantity != nil {
		validatePositive(errors, "quantity", *req.Quantity)
	}
	if req.Price != nil {
		validatePositive(errors, "price", *req.Price)
	}
	if req.Fee != nil {
		validateNonNegative(errors, "fee", *req.Fee)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func validateTransactionType(errors map[string]string, txType string) {
	if strings.TrimSpace(txType) == "" {
		errors["type"] = "type is required"
	} else if !ValidTransactionType[txType] {
		errors["type"] = fmt.Sprintf("invalid type: %s", txType)
	}
}

func validateDate(errors map[string]string, field, value string) {
	if strings.TrimSpace(value) == "" {
		errors[field] = field + " is required"
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		errors[field] = err.Error()
	}
}

func validatePositive(errors map[string]string, field string, value decimal.Decimal) {
	if !value.IsPositive() {
		errors[field] = field + " must be positive"
	}
}

func validateNonNegative(errors map[string]string, field string, value decimal.Decimal) {
	if value.IsNegative() {
		errors[field] = field + " cannot be negative"
	}
}
