package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mverdier/equitrack/internal/api/response"
	"github.com/mverdier/equitrack/internal/apperrors"
	"github.com/mverdier/equitrack/internal/service"
)

// MarketHandler handles HTTP requests for market data endpoints.
type MarketHandler struct {
	marketDataService *service.MarketDataService
}

// NewMarketHandler creates a new MarketHandler with the provided service dependency.
func NewMarketHandler(marketDataService *service.MarketDataService) *MarketHandler {
	return &MarketHandler{
		marketDataService: marketDataService,
	}
}

// Quote handles GET requests to retrieve the latest quote for a ticker.
// Serves from cache while fresh, refetches when stale, and falls back to
// the stale cache when the upstream fetch fails.
//
// Endpoint: GET /api/market/quote/{ticker}
// Response: 200 OK with Quote
// Error: 404 Not Found if no usable price exists for the ticker
// Error: 500 Internal Server Error if the lookup fails
func (h *MarketHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	quote, err := h.marketDataService.GetQuote(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, apperrors.ErrPriceUnavailable) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPriceUnavailable.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveQuote.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, quote)
}

// History handles GET requests to retrieve daily closing prices for a
// ticker over a date range.
//
// Endpoint: GET /api/market/history/{ticker}?start=2024-01-01&end=2024-12-31
// Response: 200 OK with array of PricePoint
// Error: 400 Bad Request if the range is malformed or inverted
// Error: 404 Not Found if no history exists for the ticker in the range
// Error: 500 Internal Server Error if the lookup fails
func (h *MarketHandler) History(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	start, err := parseDateParam(r.URL.Query().Get("start"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid start date", err.Error())
		return
	}
	end, err := parseDateParam(r.URL.Query().Get("end"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid end date", err.Error())
		return
	}

	history, err := h.marketDataService.GetHistory(r.Context(), ticker, start, end)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDateRange) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
			return
		}
		if errors.Is(err, apperrors.ErrNoPriceHistory) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrNoPriceHistory.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHistory.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}

// Refresh handles POST requests to refresh cached quotes for every ticker
// with an open position. Per-ticker failures are logged, not surfaced.
//
// Endpoint: POST /api/market/refresh
// Response: 202 Accepted
// Error: 500 Internal Server Error if the held tickers cannot be listed
func (h *MarketHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.marketDataService.RefreshHeldTickers(r.Context()); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to refresh quotes", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "refreshed"})
}
