package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mverdier/equitrack/internal/apperrors"
	"github.com/mverdier/equitrack/internal/fifo"
	"github.com/mverdier/equitrack/internal/model"
	"github.com/mverdier/equitrack/internal/repository"
	"github.com/mverdier/equitrack/internal/tax"
)

var hundred = decimal.NewFromInt(100)

// PortfolioService composes the ledger-derived positions and realized
// gains with market prices and the tax engine. All derived structures are
// recomputed from the ledger on every query; nothing is cached across
// mutations.
type PortfolioService struct {
	ledgerRepo   *repository.LedgerRepository
	transactions *TransactionService
	dividends    *DividendService
	marketData   *MarketDataService
	taxEngine    *tax.Engine
	logger       zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(
	ledgerRepo *repository.LedgerRepository,
	transactions *TransactionService,
	dividends *DividendService,
	marketData *MarketDataService,
	taxEngine *tax.Engine,
	logger zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		ledgerRepo:   ledgerRepo,
		transactions: transactions,
		dividends:    dividends,
		marketData:   marketData,
		taxEngine:    taxEngine,
		logger:       logger,
	}
}

// GetPositions returns every open position joined with the latest market
// quote. Quotes are fetched concurrently, one goroutine per ticker. A
// position whose price is unavailable is still returned, with its
// unrealized fields left unset rather than defaulted to zero.
func (s *PortfolioService) GetPositions(ctx context.Context) ([]model.PositionValuation, error) {
	positions, err := s.openPositions()
	if err != nil {
		return nil, err
	}

	valuations := make([]model.PositionValuation, len(positions))

	g, ctx := errgroup.WithContext(ctx)
	for i, position := range positions {
		g.Go(func() error {
			valuation, err := s.valuate(ctx, position)
			if err != nil {
				return err
			}
			valuations[i] = valuation
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToComputePositions, err)
	}

	return valuations, nil
}

// valuate joins one position with its market quote. Only an unavailable
// price downgrades the unrealized fields; any other failure is an error.
func (s *PortfolioService) valuate(ctx context.Context, position model.Position) (model.PositionValuation, error) {
	valuation := model.PositionValuation{
		Position:       position,
		PriceFreshness: model.PriceUnavailable,
	}

	quote, err := s.marketData.GetQuote(ctx, position.Ticker)
	if err != nil {
		if errors.Is(err, apperrors.ErrPriceUnavailable) {
			s.logger.Debug().Str("ticker", position.Ticker).Msg("position left unpriced")
			return valuation, nil
		}
		return model.PositionValuation{}, err
	}

	value := position.Quantity.Mul(quote.Price)
	unrealized := value.Sub(position.TotalInvested)
	unrealizedPct := decimal.Zero
	if position.TotalInvested.IsPositive() {
		unrealizedPct = unrealized.Div(position.TotalInvested).Mul(hundred)
	}

	valuation.CurrentPrice = &quote.Price
	valuation.CurrentValue = &value
	valuation.UnrealizedGain = &unrealized
	valuation.UnrealizedGainPct = &unrealizedPct
	valuation.PriceFreshness = quote.Freshness
	valuation.PriceLastUpdated = &quote.FetchedAt

	return valuation, nil
}

// GetRealizedGains recomputes realized gains across the ledger. ticker
// restricts to one ticker when non-empty; year restricts to sales dated in
// that year when non-zero.
func (s *PortfolioService) GetRealizedGains(ticker string, year int) ([]model.RealizedGain, error) {
	tickers, err := s.tickerFilter(ticker)
	if err != nil {
		return nil, err
	}

	var gains []model.RealizedGain
	for _, info := range tickers {
		result, err := s.transactions.ReplayTicker(info.Ticker)
		if err != nil {
			if errors.Is(err, apperrors.ErrTickerNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrFailedToComputeGains, info.Ticker, err)
		}
		for _, gain := range result.Gains {
			if year != 0 && gain.SaleDate.Year() != year {
				continue
			}
			gains = append(gains, gain)
		}
	}

	sort.SliceStable(gains, func(i, j int) bool {
		return gains[i].SaleDate.Before(gains[j].SaleDate)
	})
	return gains, nil
}

// GetAnnualTaxReport sums the year's realized gains and gross dividends
// and compares the two tax regimes. A year with no sells and no dividends
// returns ErrInvalidTaxYear: an explicit empty marker, not a zero result.
func (s *PortfolioService) GetAnnualTaxReport(year int) (model.TaxYearSummary, error) {
	gains, err := s.GetRealizedGains("", year)
	if err != nil {
		return model.TaxYearSummary{}, err
	}

	dividends, err := s.dividends.GetDividendsByYear(year)
	if err != nil {
		return model.TaxYearSummary{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToComputeTaxReport, err)
	}

	if len(gains) == 0 && len(dividends) == 0 {
		return model.TaxYearSummary{}, fmt.Errorf("%w: %d", apperrors.ErrInvalidTaxYear, year)
	}

	totalGains := decimal.Zero
	for _, gain := range gains {
		totalGains = totalGains.Add(gain.Gain)
	}
	totalDividends := decimal.Zero
	for _, dividend := range dividends {
		totalDividends = totalDividends.Add(dividend.GrossAmount)
	}

	return s.taxEngine.Compare(year, totalGains, totalDividends), nil
}

// Summary is the portfolio-wide overview: invested capital, current value
// over the positions with a usable price, and realized and dividend
// income. The performance percent relates total gains (unrealized over
// priced positions + realized + received dividends) to invested capital.
type Summary struct {
	TotalInvested      decimal.Decimal  `json:"totalInvested"`
	CurrentValue       *decimal.Decimal `json:"currentValue,omitempty"`
	UnrealizedGain     *decimal.Decimal `json:"unrealizedGain,omitempty"`
	RealizedGain       decimal.Decimal  `json:"realizedGain"`
	DividendsReceived  decimal.Decimal  `json:"dividendsReceived"`
	PerformancePercent *decimal.Decimal `json:"performancePercent,omitempty"`
	PositionCount      int              `json:"positionCount"`
	UnpricedPositions  int              `json:"unpricedPositions"`
}

// GetSummary computes the portfolio overview.
func (s *PortfolioService) GetSummary(ctx context.Context) (Summary, error) {
	valuations, err := s.GetPositions(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{PositionCount: len(valuations)}

	pricedInvested := decimal.Zero
	currentValue := decimal.Zero
	for _, v := range valuations {
		summary.TotalInvested = summary.TotalInvested.Add(v.TotalInvested)
		if v.CurrentValue == nil {
			summary.UnpricedPositions++
			continue
		}
		pricedInvested = pricedInvested.Add(v.TotalInvested)
		currentValue = currentValue.Add(*v.CurrentValue)
	}

	gains, err := s.GetRealizedGains("", 0)
	if err != nil {
		return Summary{}, err
	}
	for _, gain := range gains {
		summary.RealizedGain = summary.RealizedGain.Add(gain.Gain)
	}

	dividends, err := s.dividends.ListDividends()
	if err != nil {
		return Summary{}, err
	}
	for _, dividend := range dividends {
		if dividend.Status == model.DividendReceived {
			summary.DividendsReceived = summary.DividendsReceived.Add(dividend.GrossAmount)
		}
	}

	// Value-dependent figures only cover positions with a usable price.
	if summary.UnpricedPositions < summary.PositionCount || summary.PositionCount == 0 {
		unrealized := currentValue.Sub(pricedInvested)
		summary.CurrentValue = &currentValue
		summary.UnrealizedGain = &unrealized

		if summary.TotalInvested.IsPositive() {
			totalGain := unrealized.Add(summary.RealizedGain).Add(summary.DividendsReceived)
			performance := totalGain.Div(summary.TotalInvested).Mul(hundred)
			summary.PerformancePercent = &performance
		}
	}

	return summary, nil
}

// openPositions derives the current positions from the ledger, one replay
// per ticker, sorted by ticker.
func (s *PortfolioService) openPositions() ([]model.Position, error) {
	tickers, err := s.ledgerRepo.GetTickers()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToComputePositions, err)
	}

	var positions []model.Position
	for _, info := range tickers {
		result, err := s.transactions.ReplayTicker(info.Ticker)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrFailedToComputePositions, info.Ticker, err)
		}
		if position, held := fifo.Aggregate(info.Ticker, info.CompanyName, result.OpenLots); held {
			positions = append(positions, position)
		}
	}
	return positions, nil
}

func (s *PortfolioService) tickerFilter(ticker string) ([]repository.TickerInfo, error) {
	if ticker != "" {
		return []repository.TickerInfo{{Ticker: ticker}}, nil
	}
	tickers, err := s.ledgerRepo.GetTickers()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToComputeGains, err)
	}
	return tickers, nil
}
