package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mverdier/equitrack/internal/api/response"
	"github.com/mverdier/equitrack/internal/apperrors"
	"github.com/mverdier/equitrack/internal/service"
)

// PortfolioHandler handles HTTP requests for portfolio-level endpoints:
// positions, realized gains, the annual tax report and the summary.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Positions handles GET requests to retrieve all open positions with
// market valuations. Positions whose price is unavailable are included
// with their unrealized fields omitted.
//
// Endpoint: GET /api/portfolio/positions
// Response: 200 OK with array of PositionValuation
// Error: 500 Internal Server Error if position computation fails
func (h *PortfolioHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.portfolioService.GetPositions(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputePositions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, positions)
}

// RealizedGains handles GET requests to retrieve realized gains, oldest
// sale first. Optional query parameters: ticker restricts to one ticker,
// year restricts to sales dated in that year.
//
// Endpoint: GET /api/portfolio/realized-gains?ticker=AAPL&year=2024
// Response: 200 OK with array of RealizedGain
// Error: 400 Bad Request if the year parameter is malformed
// Error: 404 Not Found if a requested ticker has no transactions
// Error: 500 Internal Server Error if gain computation fails
func (h *PortfolioHandler) RealizedGains(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")

	year := 0
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		parsed, err := parseYearParam(yearParam)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid year parameter", err.Error())
			return
		}
		year = parsed
	}

	gains, err := h.portfolioService.GetRealizedGains(ticker, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrTickerNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTickerNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeGains.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, gains)
}

// TaxReport handles GET requests to retrieve the annual tax report: the
// year's realized gains and gross dividends under both the flat and the
// progressive regime, with the cheaper one flagged.
//
// Endpoint: GET /api/portfolio/tax/{year}
// Response: 200 OK with TaxYearSummary
// Error: 400 Bad Request if the year is malformed
// Error: 404 Not Found if the year has no sells and no dividends
// Error: 500 Internal Server Error if the computation fails
func (h *PortfolioHandler) TaxReport(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(chi.URLParam(r, "year"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid year", err.Error())
		return
	}

	summary, err := h.portfolioService.GetAnnualTaxReport(year)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTaxYear) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInvalidTaxYear.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeTaxReport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Summary handles GET requests to retrieve the portfolio-wide overview.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with Summary
// Error: 500 Internal Server Error if the computation fails
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetSummary(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputePositions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
