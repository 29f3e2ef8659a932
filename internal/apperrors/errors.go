package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDividendNotFound indicates that a dividend record with the given ID does not exist.
	ErrDividendNotFound = errors.New("dividend not found")

	// ErrTickerNotFound indicates that no transactions exist for the given ticker.
	ErrTickerNotFound = errors.New("ticker not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientQuantity indicates that a sell cannot be completed because
	// the open lots for the ticker do not hold enough quantity. The ledger is
	// left untouched; a sell is never partially applied.
	ErrInsufficientQuantity = errors.New("insufficient quantity for sale")

	// ErrInvalidTaxYear indicates that the requested tax year has no sells and
	// no dividends. This is an explicit empty-result marker, distinct from a
	// year whose liability computes to zero.
	ErrInvalidTaxYear = errors.New("no activity in tax year")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")
)

// Collaborator errors represent failures of the market-data collaborator.
var (
	// ErrPriceUnavailable indicates that no usable price exists for a ticker,
	// neither fresh nor within the cache's maximum age. Position snapshots
	// downgrade their unrealized fields rather than fail on this error.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrNoPriceHistory indicates that no historical prices exist for a ticker
	// in the requested range.
	ErrNoPriceHistory = errors.New("no price history")

	// ErrNoDividendHistory indicates that the provider reports no past
	// payouts for a ticker, or too few to project the next one.
	ErrNoDividendHistory = errors.New("no dividend history")
)

// Operation failure errors represent system-level failures when retrieving
// or processing data, as opposed to missing entities or validation issues.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToRetrieveDividends    = errors.New("failed to retrieve dividends")
	ErrFailedToRetrieveDividend     = errors.New("failed to retrieve dividend")
	ErrFailedToComputePositions     = errors.New("failed to compute positions")
	ErrFailedToComputeGains         = errors.New("failed to compute realized gains")
	ErrFailedToComputeTaxReport     = errors.New("failed to compute tax report")
	ErrFailedToRetrieveQuote        = errors.New("failed to retrieve quote")
	ErrFailedToRetrieveHistory      = errors.New("failed to retrieve price history")
)
