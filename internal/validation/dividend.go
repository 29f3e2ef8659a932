package validation

import (
	"fmt"
	"strings"

	"github.com/mverdier/equitrack/internal/api/request"
	"github.com/mverdier/equitrack/internal/model"
)

// ValidDividendStatus contains the allowed dividend status values.
var ValidDividendStatus = map[string]bool{
	model.DividendExpected: true, model.DividendReceived: true,
}

// ValidateCreateDividend validates a dividend creation request.
//
// Required fields:
//   - ticker: Must be non-empty
//   - amountPerShare: Must be positive
//   - sharesOwned: Must be positive
//   - taxWithheld: Must be non-negative
//   - exDividendDate: Must be in YYYY-MM-DD format
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateDividend(req request.CreateDividendRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	}

	validatePositive(errors, "amountPerShare", req.AmountPerShare)
	validatePositive(errors, "sharesOwned", req.SharesOwned)
	validateNonNegative(errors, "taxWithheld", req.TaxWithheld)
	validateDate(errors, "exDividendDate", req.ExDividendDate)

	if req.PaymentDate != "" {
		validateDate(errors, "paymentDate", req.PaymentDate)
	}
	if req.Status != "" && !ValidDividendStatus[req.Status] {
		errors["status"] = fmt.Sprintf("invalid status: %s", req.Status)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateDividend validates a dividend update request.
// All fields are optional, but if provided, they must meet the same
// constraints as create. An empty paymentDate is allowed and clears the
// payment date.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateUpdateDividend(req request.UpdateDividendRequest) error {
	errors := make(map[string]string)

	if req.Ticker != nil && strings.TrimSpace(*req.Ticker) == "" {
		errors["ticker"] = "ticker cannot be empty"
	}
	if req.AmountPerShare != nil {
		validatePositive(errors, "amountPerShare", *req.AmountPerShare)
	}
	if req.SharesOwned != nil {
		validatePositive(errors, "sharesOwned", *req.SharesOwned)
	}
	if req.TaxWithheld != nil {
		validateNonNegative(errors, "taxWithheld", *req.TaxWithheld)
	}
	if req.ExDividendDate != nil {
		validateDate(errors, "exDividendDate", *req.ExDividendDate)
	}
	if req.PaymentDate != nil && *req.PaymentDate != "" {
		validateDate(errors, "paymentDate", *req.PaymentDate)
	}
	if req.Status != nil && !ValidDividendStatus[*req.Status] {
		errors["status"] = fmt.Sprintf("invalid status: %s", *req.Status)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateMarkReceived validates a mark-received request.
func ValidateMarkReceived(req request.MarkReceivedRequest) error {
	errors := make(map[string]string)

	validateDate(errors, "receivedDate", req.ReceivedDate)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
