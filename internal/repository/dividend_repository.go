package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/mverdier/equitrack/internal/apperrors"
	"github.com/mverdier/equitrack/internal/model"
)

// DividendRepository provides data access for dividend records.
type DividendRepository struct {
	db *sql.DB
}

// NewDividendRepository creates a new DividendRepository with the provided database connection.
func NewDividendRepository(db *sql.DB) *DividendRepository {
	return &DividendRepository{db: db}
}

const dividendColumns = `id, ticker, company_name, amount_per_share, ex_dividend_date, payment_date,
	shares_owned, gross_amount, tax_withheld, net_amount, status, received_date, note, created_at`

// InsertDividend appends a dividend record.
func (s *DividendRepository) InsertDividend(ctx context.Context, d *model.Dividend) error {
	query := `
		INSERT INTO dividend
		(id, ticker, company_name, amount_per_share, ex_dividend_date, payment_date,
		 shares_owned, gross_amount, tax_withheld, net_amount, status, received_date, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.Ticker, d.CompanyName, d.AmountPerShare.String(),
		dateOnly(d.ExDividendDate), nullableDate(d.PaymentDate),
		d.SharesOwned.String(), d.GrossAmount.String(), d.TaxWithheld.String(), d.NetAmount.String(),
		d.Status, nullableDate(d.ReceivedDate), d.Note,
		d.CreatedAt.UTC().Format(time.RFC3339Nano), d.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert dividend: %w", err)
	}
	return nil
}

// UpdateDividend rewrites an existing dividend record in place.
func (s *DividendRepository) UpdateDividend(ctx context.Context, d *model.Dividend) error {
	query := `
		UPDATE dividend
		SET ticker = ?, company_name = ?, amount_per_share = ?, ex_dividend_date = ?,
		    payment_date = ?, shares_owned = ?, gross_amount = ?, tax_withheld = ?,
		    net_amount = ?, status = ?, received_date = ?, note = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		d.Ticker, d.CompanyName, d.AmountPerShare.String(), dateOnly(d.ExDividendDate),
		nullableDate(d.PaymentDate), d.SharesOwned.String(), d.GrossAmount.String(),
		d.TaxWithheld.String(), d.NetAmount.String(), d.Status,
		nullableDate(d.ReceivedDate), d.Note, time.Now().UTC().Format(time.RFC3339Nano),
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update dividend: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrDividendNotFound
	}
	return nil
}

// DeleteDividend removes a dividend record.
func (s *DividendRepository) DeleteDividend(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM dividend WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dividend: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrDividendNotFound
	}
	return nil
}

// GetDividend retrieves a single dividend by its ID.
func (s *DividendRepository) GetDividend(id string) (model.Dividend, error) {
	query := `SELECT ` + dividendColumns + ` FROM dividend WHERE id = ?`

	d, err := scanDividend(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return model.Dividend{}, apperrors.ErrDividendNotFound
	}
	if err != nil {
		return model.Dividend{}, err
	}
	return d, nil
}

// ListDividends retrieves all dividend records, newest first.
func (s *DividendRepository) ListDividends() ([]model.Dividend, error) {
	query := `
		SELECT ` + dividendColumns + `
		FROM dividend
		ORDER BY COALESCE(payment_date, ex_dividend_date) DESC, created_at DESC
	`
	return s.queryDividends(query)
}

// GetDividendsByYear retrieves dividends attributed to the given year. A
// dividend belongs to the year of its payment date, falling back to the
// ex-dividend date when no payment date is recorded.
func (s *DividendRepository) GetDividendsByYear(year int) ([]model.Dividend, error) {
	query := `
		SELECT ` + dividendColumns + `
		FROM dividend
		WHERE strftime('%Y', COALESCE(payment_date, ex_dividend_date)) = ?
		ORDER BY COALESCE(payment_date, ex_dividend_date) ASC, created_at ASC
	`
	return s.queryDividends(query, strconv.Itoa(year))
}

// GetDividendsByTicker retrieves a ticker's dividend records, ordered by
// ex-dividend date.
func (s *DividendRepository) GetDividendsByTicker(ticker string) ([]model.Dividend, error) {
	query := `
		SELECT ` + dividendColumns + `
		FROM dividend
		WHERE ticker = ?
		ORDER BY ex_dividend_date ASC, created_at ASC
	`
	return s.queryDividends(query, ticker)
}

// GetUpcomingDividends retrieves expected dividends whose ex-dividend date
// is on or after the given date, soonest first.
func (s *DividendRepository) GetUpcomingDividends(from time.Time) ([]model.Dividend, error) {
	query := `
		SELECT ` + dividendColumns + `
		FROM dividend
		WHERE status = ? AND ex_dividend_date >= ?
		ORDER BY ex_dividend_date ASC, created_at ASC
	`
	return s.queryDividends(query, model.DividendExpected, dateOnly(from))
}

func (s *DividendRepository) queryDividends(query string, args ...any) ([]model.Dividend, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend table: %w", err)
	}
	defer rows.Close()

	var dividends []model.Dividend
	for rows.Next() {
		d, err := scanDividend(rows)
		if err != nil {
			return nil, err
		}
		dividends = append(dividends, d)
	}
	return dividends, rows.Err()
}

func scanDividend(row rowScanner) (model.Dividend, error) {
	var d model.Dividend
	var amountStr, sharesStr, grossStr, taxStr, netStr string
	var exDateStr, createdStr string
	var paymentStr, receivedStr, note sql.NullString

	err := row.Scan(
		&d.ID, &d.Ticker, &d.CompanyName, &amountStr,
		&exDateStr, &paymentStr,
		&sharesStr, &grossStr, &taxStr, &netStr,
		&d.Status, &receivedStr, &note, &createdStr,
	)
	if err == sql.ErrNoRows {
		return model.Dividend{}, err
	}
	if err != nil {
		return model.Dividend{}, fmt.Errorf("failed to scan dividend table results: %w", err)
	}

	if d.AmountPerShare, err = ParseDecimal(amountStr); err != nil {
		return model.Dividend{}, err
	}
	if d.SharesOwned, err = ParseDecimal(sharesStr); err != nil {
		return model.Dividend{}, err
	}
	if d.GrossAmount, err = ParseDecimal(grossStr); err != nil {
		return model.Dividend{}, err
	}
	if d.TaxWithheld, err = ParseDecimal(taxStr); err != nil {
		return model.Dividend{}, err
	}
	if d.NetAmount, err = ParseDecimal(netStr); err != nil {
		return model.Dividend{}, err
	}
	if d.ExDividendDate, err = ParseTime(exDateStr); err != nil {
		return model.Dividend{}, err
	}
	if d.CreatedAt, err = ParseTime(createdStr); err != nil {
		return model.Dividend{}, err
	}
	if d.PaymentDate, err = nullableTime(paymentStr); err != nil {
		return model.Dividend{}, err
	}
	if d.ReceivedDate, err = nullableTime(receivedStr); err != nil {
		return model.Dividend{}, err
	}
	d.Note = note.String

	return d, nil
}
