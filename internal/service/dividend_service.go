package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mverdier/equitrack/internal/api/request"
	"github.com/mverdier/equitrack/internal/apperrors"
	"github.com/mverdier/equitrack/internal/fifo"
	"github.com/mverdier/equitrack/internal/marketdata"
	"github.com/mverdier/equitrack/internal/model"
	"github.com/mverdier/equitrack/internal/repository"
)

// Frequency estimation windows: payouts spaced under ~4 months apart read
// as quarterly, under ~8 months as semi-annual, anything longer as annual.
const (
	quarterlyMaxInterval  = 120
	semiAnnualMaxInterval = 240

	estimateHistoryYears = 2
	estimateSampleSize   = 4
)

// DividendService handles dividend-related business logic operations:
// recorded dividend CRUD plus the provider-fed history, next-payout
// estimation and per-position sync.
type DividendService struct {
	dividendRepo *repository.DividendRepository
	ledgerRepo   *repository.LedgerRepository
	client       *marketdata.Client
	logger       zerolog.Logger
}

// NewDividendService creates a new DividendService with the provided dependencies.
func NewDividendService(
	dividendRepo *repository.DividendRepository,
	ledgerRepo *repository.LedgerRepository,
	client *marketdata.Client,
	logger zerolog.Logger,
) *DividendService {
	return &DividendService{
		dividendRepo: dividendRepo,
		ledgerRepo:   ledgerRepo,
		client:       client,
		logger:       logger,
	}
}

// CreateDividend records a dividend. The gross amount is derived from the
// per-share amount and the shares owned at the ex-dividend date; the net
// amount subtracts any tax withheld at source.
func (s *DividendService) CreateDividend(ctx context.Context, req request.CreateDividendRequest) (*model.Dividend, error) {
	exDate, err := time.Parse("2006-01-02", req.ExDividendDate)
	if err != nil {
		return nil, err
	}

	var paymentDate *time.Time
	if req.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			return nil, err
		}
		paymentDate = &parsed
	}

	status := req.Status
	if status == "" {
		status = model.DividendExpected
	}

	gross := req.AmountPerShare.Mul(req.SharesOwned)

	dividend := &model.Dividend{
		ID:             uuid.New().String(),
		Ticker:         req.Ticker,
		CompanyName:    req.CompanyName,
		AmountPerShare: req.AmountPerShare,
		ExDividendDate: exDate,
		PaymentDate:    paymentDate,
		SharesOwned:    req.SharesOwned,
		GrossAmount:    gross,
		TaxWithheld:    req.TaxWithheld,
		NetAmount:      gross.Sub(req.TaxWithheld),
		Status:         status,
		Note:           req.Note,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.dividendRepo.InsertDividend(ctx, dividend); err != nil {
		return nil, fmt.Errorf("failed to create dividend: %w", err)
	}

	return dividend, nil
}

// UpdateDividend applies a partial edit to a dividend record, re-deriving
// the gross and net amounts from the edited fields.
func (s *DividendService) UpdateDividend(ctx context.Context, id string, req request.UpdateDividendRequest) (*model.Dividend, error) {
	dividend, err := s.dividendRepo.GetDividend(id)
	if err != nil {
		return nil, err
	}

	if req.Ticker != nil {
		dividend.Ticker = *req.Ticker
	}
	if req.CompanyName != nil {
		dividend.CompanyName = *req.CompanyName
	}
	if req.AmountPerShare != nil {
		dividend.AmountPerShare = *req.AmountPerShare
	}
	if req.SharesOwned != nil {
		dividend.SharesOwned = *req.SharesOwned
	}
	if req.TaxWithheld != nil {
		dividend.TaxWithheld = *req.TaxWithheld
	}
	if req.Status != nil {
		dividend.Status = *req.Status
	}
	if req.Note != nil {
		dividend.Note = *req.Note
	}
	if req.ExDividendDate != nil {
		exDate, err := time.Parse("2006-01-02", *req.ExDividendDate)
		if err != nil {
			return nil, err
		}
		dividend.ExDividendDate = exDate
	}
	if req.PaymentDate != nil {
		if *req.PaymentDate == "" {
			dividend.PaymentDate = nil
		} else {
			paymentDate, err := time.Parse("2006-01-02", *req.PaymentDate)
			if err != nil {
				return nil, err
			}
			dividend.PaymentDate = &paymentDate
		}
	}

	dividend.GrossAmount = dividend.AmountPerShare.Mul(dividend.SharesOwned)
	dividend.NetAmount = dividend.GrossAmount.Sub(dividend.TaxWithheld)

	if err := s.dividendRepo.UpdateDividend(ctx, &dividend); err != nil {
		return nil, fmt.Errorf("failed to update dividend: %w", err)
	}

	return &dividend, nil
}

// MarkReceived flips a dividend to received as of the given date.
func (s *DividendService) MarkReceived(ctx context.Context, id string, receivedDate time.Time) (*model.Dividend, error) {
	dividend, err := s.dividendRepo.GetDividend(id)
	if err != nil {
		return nil, err
	}

	dividend.Status = model.DividendReceived
	dividend.ReceivedDate = &receivedDate

	if err := s.dividendRepo.UpdateDividend(ctx, &dividend); err != nil {
		return nil, fmt.Errorf("failed to mark dividend received: %w", err)
	}

	return &dividend, nil
}

// DeleteDividend removes a dividend record.
func (s *DividendService) DeleteDividend(ctx context.Context, id string) error {
	return s.dividendRepo.DeleteDividend(ctx, id)
}

// GetDividend retrieves a single dividend by its ID.
func (s *DividendService) GetDividend(id string) (model.Dividend, error) {
	return s.dividendRepo.GetDividend(id)
}

// ListDividends retrieves all dividend records, newest first.
func (s *DividendService) ListDividends() ([]model.Dividend, error) {
	return s.dividendRepo.ListDividends()
}

// GetDividendsByYear retrieves dividends attributed to the given year.
func (s *DividendService) GetDividendsByYear(year int) ([]model.Dividend, error) {
	return s.dividendRepo.GetDividendsByYear(year)
}

// GetDividendHistory fetches a ticker's per-share payout history from the
// market data provider, newest first.
func (s *DividendService) GetDividendHistory(ctx context.Context, ticker string, years int) ([]model.DividendEvent, error) {
	events, err := s.client.DividendHistory(ctx, ticker, years)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dividend history for %s: %w", ticker, err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNoDividendHistory, ticker)
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Date.After(events[j].Date) })
	return events, nil
}

// EstimateNextDividend projects a ticker's next payout from its last two
// years of history: the average spacing between payouts sets the frequency
// and next ex-date, the amount averages the most recent payouts.
func (s *DividendService) EstimateNextDividend(ctx context.Context, ticker string) (*model.DividendEstimate, error) {
	history, err := s.GetDividendHistory(ctx, ticker, estimateHistoryYears)
	if err != nil {
		return nil, err
	}
	if len(history) < 2 {
		return nil, fmt.Errorf("%w: %s pays too rarely to project", apperrors.ErrNoDividendHistory, ticker)
	}

	// History is newest first; intervals are measured oldest to newest.
	totalDays := 0
	for i := 0; i < len(history)-1; i++ {
		totalDays += int(history[i].Date.Sub(history[i+1].Date).Hours() / 24)
	}
	avgInterval := totalDays / (len(history) - 1)

	frequency := model.FrequencyAnnual
	nextAfter := 365
	switch {
	case avgInterval < quarterlyMaxInterval:
		frequency = model.FrequencyQuarterly
		nextAfter = 90
	case avgInterval < semiAnnualMaxInterval:
		frequency = model.FrequencySemiAnnual
		nextAfter = 180
	}

	sample := history
	if len(sample) > estimateSampleSize {
		sample = sample[:estimateSampleSize]
	}
	sum := decimal.Zero
	for _, event := range sample {
		sum = sum.Add(event.AmountPerShare)
	}

	confidence := "low"
	if len(history) >= estimateSampleSize {
		confidence = "medium"
	}

	return &model.DividendEstimate{
		Ticker:          ticker,
		EstimatedExDate: history[0].Date.AddDate(0, 0, nextAfter),
		EstimatedAmount: sum.Div(decimal.NewFromInt(int64(len(sample)))),
		Frequency:       frequency,
		Confidence:      confidence,
	}, nil
}

// SyncDividends projects the next payout for every ticker with an open
// position and records it as an expected dividend sized to the held
// quantity. A ticker that already has an expected entry on the projected
// ex-date is left alone, so repeated syncs never duplicate. Tickers whose
// history cannot be fetched or projected are skipped and logged.
func (s *DividendService) SyncDividends(ctx context.Context) ([]model.Dividend, error) {
	tickers, err := s.ledgerRepo.GetTickers()
	if err != nil {
		return nil, fmt.Errorf("failed to list held tickers: %w", err)
	}

	var created []model.Dividend
	for _, info := range tickers {
		transactions, err := s.ledgerRepo.GetTransactionsByTicker(info.Ticker)
		if err != nil {
			return nil, fmt.Errorf("failed to load ticker history: %w", err)
		}
		result, err := fifo.Replay(transactions)
		if err != nil {
			return nil, fmt.Errorf("failed to replay %s: %w", info.Ticker, err)
		}
		quantity := result.OpenQuantity()
		if !quantity.IsPositive() {
			continue
		}

		estimate, err := s.EstimateNextDividend(ctx, info.Ticker)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNoDividendHistory) {
				s.logger.Warn().Err(err).Str("ticker", info.Ticker).Msg("dividend sync skipped ticker")
			}
			continue
		}

		exists, err := s.hasExpectedDividendOn(info.Ticker, estimate.EstimatedExDate)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		gross := estimate.EstimatedAmount.Mul(quantity)
		dividend := model.Dividend{
			ID:             uuid.New().String(),
			Ticker:         info.Ticker,
			CompanyName:    info.CompanyName,
			AmountPerShare: estimate.EstimatedAmount,
			ExDividendDate: estimate.EstimatedExDate,
			SharesOwned:    quantity,
			GrossAmount:    gross,
			TaxWithheld:    decimal.Zero,
			NetAmount:      gross,
			Status:         model.DividendExpected,
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.dividendRepo.InsertDividend(ctx, &dividend); err != nil {
			return nil, fmt.Errorf("failed to record expected dividend for %s: %w", info.Ticker, err)
		}
		created = append(created, dividend)
	}

	return created, nil
}

// GetUpcomingDividends lists the expected dividends from today onward,
// soonest first.
func (s *DividendService) GetUpcomingDividends() ([]model.Dividend, error) {
	return s.dividendRepo.GetUpcomingDividends(time.Now().UTC())
}

func (s *DividendService) hasExpectedDividendOn(ticker string, exDate time.Time) (bool, error) {
	dividends, err := s.dividendRepo.GetDividendsByTicker(ticker)
	if err != nil {
		return false, err
	}
	for _, d := range dividends {
		if d.Status == model.DividendExpected && d.ExDividendDate.Equal(exDate) {
			return true, nil
		}
	}
	return false, nil
}
