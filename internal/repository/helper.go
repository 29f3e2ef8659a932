package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			returnTime, err = time.Parse("2006-01-02 15:04:05", str)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
			}
		}
	}
	return returnTime.UTC(), nil
}

// ParseDecimal parses a decimal column stored as TEXT. Amounts are kept
// exact in storage; parse failures indicate corrupted rows.
func ParseDecimal(str string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse decimal %q: %w", str, err)
	}
	return value, nil
}

// nullableTime converts an optional DATE column into a *time.Time.
func nullableTime(str sql.NullString) (*time.Time, error) {
	if !str.Valid || str.String == "" {
		return nil, nil
	}
	parsed, err := ParseTime(str.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// dateOnly formats a time for DATE columns.
func dateOnly(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// nullableDate formats an optional time for DATE columns.
func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return dateOnly(*t)
}
