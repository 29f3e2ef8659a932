package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mverdier/equitrack/internal/api/request"
	"github.com/mverdier/equitrack/internal/api/response"
	"github.com/mverdier/equitrack/internal/apperrors"
	"github.com/mverdier/equitrack/internal/service"
	"github.com/mverdier/equitrack/internal/validation"
)

// defaultHistoryYears bounds the payout history fetch when the caller
// does not pass a years parameter.
const defaultHistoryYears = 5

// DividendHandler handles HTTP requests for dividend endpoints.
type DividendHandler struct {
	dividendService *service.DividendService
}

// NewDividendHandler creates a new DividendHandler with the provided service dependency.
func NewDividendHandler(dividendService *service.DividendService) *DividendHandler {
	return &DividendHandler{
		dividendService: dividendService,
	}
}

// AllDividends handles GET requests to retrieve all dividend records,
// newest first. The optional year query parameter restricts to dividends
// attributed to that year.
//
// Endpoint: GET /api/dividend?year=2024
// Response: 200 OK with array of Dividend
// Error: 400 Bad Request if the year parameter is malformed
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) AllDividends(w http.ResponseWriter, r *http.Request) {
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		year, err := parseYearParam(yearParam)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid year parameter", err.Error())
			return
		}

		dividends, err := h.dividendService.GetDividendsByYear(year)
		if err != nil {
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
			return
		}
		response.RespondJSON(w, http.StatusOK, dividends)
		return
	}

	dividends, err := h.dividendService.ListDividends()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, dividends)
}

// GetDividend handles GET requests to retrieve a single dividend by ID.
//
// Endpoint: GET /api/dividend/{uuid}
// Response: 200 OK with Dividend
// Error: 400 Bad Request if dividend ID is invalid (validated by middleware)
// Error: 404 Not Found if dividend not found
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) GetDividend(w http.ResponseWriter, r *http.Request) {
	dividendID := chi.URLParam(r, "uuid")

	dividend, err := h.dividendService.GetDividend(dividendID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDividendNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDividendNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividend.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, dividend)
}

// CreateDividend handles POST requests to record a dividend.
// Gross and net amounts are derived from per-share amount, shares owned
// and withheld tax.
//
// Endpoint: POST /api/dividend
// Request Body: CreateDividendRequest
// Response: 201 Created with Dividend
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *DividendHandler) CreateDividend(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateDividendRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateDividend(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	dividend, err := h.dividendService.CreateDividend(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create dividend", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, dividend)
}

// UpdateDividend handles PUT requests to edit a recorded dividend.
//
// Endpoint: PUT /api/dividend/{uuid}
// Request Body: UpdateDividendRequest (all fields optional)
// Response: 200 OK with updated Dividend
// Error: 400 Bad Request if dividend ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if dividend not found
// Error: 500 Internal Server Error if update fails
func (h *DividendHandler) UpdateDividend(w http.ResponseWriter, r *http.Request) {
	dividendID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateDividendRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateDividend(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	dividend, err := h.dividendService.UpdateDividend(r.Context(), dividendID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDividendNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDividendNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update dividend", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, dividend)
}

// MarkReceived handles POST requests to mark an expected dividend as received.
//
// Endpoint: POST /api/dividend/{uuid}/received
// Request Body: MarkReceivedRequest (receivedDate)
// Response: 200 OK with updated Dividend
// Error: 400 Bad Request if dividend ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if dividend not found
// Error: 500 Internal Server Error if update fails
func (h *DividendHandler) MarkReceived(w http.ResponseWriter, r *http.Request) {
	dividendID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.MarkReceivedRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateMarkReceived(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	receivedDate, err := parseDateParam(req.ReceivedDate)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid receivedDate", err.Error())
		return
	}

	dividend, err := h.dividendService.MarkReceived(r.Context(), dividendID, receivedDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrDividendNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDividendNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to mark dividend received", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, dividend)
}

// History handles GET requests to retrieve a ticker's per-share payout
// history from the market data provider, newest first.
//
// Endpoint: GET /api/dividend/history/{ticker}?years=5
// Response: 200 OK with array of DividendEvent
// Error: 400 Bad Request if the years parameter is malformed
// Error: 404 Not Found if the provider reports no payouts for the ticker
// Error: 500 Internal Server Error if the fetch fails
func (h *DividendHandler) History(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	years := defaultHistoryYears
	if yearsParam := r.URL.Query().Get("years"); yearsParam != "" {
		parsed, err := strconv.Atoi(yearsParam)
		if err != nil || parsed < 1 {
			response.RespondError(w, http.StatusBadRequest, "invalid years parameter", yearsParam)
			return
		}
		years = parsed
	}

	events, err := h.dividendService.GetDividendHistory(r.Context(), ticker, years)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoDividendHistory) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrNoDividendHistory.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, events)
}

// Upcoming handles GET requests to list the expected dividends from today
// onward, soonest first.
//
// Endpoint: GET /api/dividend/upcoming
// Response: 200 OK with array of Dividend
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	dividends, err := h.dividendService.GetUpcomingDividends()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, dividends)
}

// Sync handles POST requests to project the next payout for every open
// position and record it as an expected dividend. Repeated syncs never
// duplicate an already-projected entry.
//
// Endpoint: POST /api/dividend/sync
// Response: 200 OK with array of newly recorded Dividend
// Error: 500 Internal Server Error if the sync fails
func (h *DividendHandler) Sync(w http.ResponseWriter, r *http.Request) {
	created, err := h.dividendService.SyncDividends(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to sync dividends", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, created)
}

// DeleteDividend handles DELETE requests to remove a dividend record.
//
// Endpoint: DELETE /api/dividend/{uuid}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if dividend ID is invalid (validated by middleware)
// Error: 404 Not Found if dividend not found
// Error: 500 Internal Server Error if deletion fails
func (h *DividendHandler) DeleteDividend(w http.ResponseWriter, r *http.Request) {
	dividendID := chi.URLParam(r, "uuid")

	err := h.dividendService.DeleteDividend(r.Context(), dividendID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDividendNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDividendNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete dividend", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
