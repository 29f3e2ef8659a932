package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mverdier/equitrack/internal/api/request"
	"github.com/mverdier/equitrack/internal/api/response"
	"github.com/mverdier/equitrack/internal/apperrors"
	"github.com/mverdier/equitrack/internal/service"
	"github.com/mverdier/equitrack/internal/validation"
)

// TransactionHandler handles HTTP requests for ledger transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// AllTransactions handles GET requests to retrieve the full ledger,
// newest first. Optional ticker or start/end filters narrow the listing.
//
// Endpoint: GET /api/transaction?ticker=&start=YYYY-MM-DD&end=YYYY-MM-DD
// Response: 200 OK with array of Transaction
// Error: 400 Bad Request if a date filter is malformed
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) AllTransactions(w http.ResponseWriter, r *http.Request) {
	if ticker := r.URL.Query().Get("ticker"); ticker != "" {
		h.transactionsForTicker(w, ticker)
		return
	}

	if r.URL.Query().Get("start") != "" || r.URL.Query().Get("end") != "" {
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

		transactions, err := h.transactionService.ListTransactionsByDateRange(start, end)
		if err != nil {
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
			return
		}

		response.RespondJSON(w, http.StatusOK, transactions)
		return
	}

	transactions, err := h.transactionService.ListTransactions()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// TransactionsPerTicker handles GET requests to retrieve all transactions
// for one ticker in ledger order (date, then insertion order).
//
// Endpoint: GET /api/transaction/ticker/{ticker}
// Response: 200 OK with array of Transaction
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) TransactionsPerTicker(w http.ResponseWriter, r *http.Request) {
	h.transactionsForTicker(w, chi.URLParam(r, "ticker"))
}

func (h *TransactionHandler) transactionsForTicker(w http.ResponseWriter, ticker string) {
	transactions, err := h.transactionService.ListTransactionsByTicker(ticker)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/transaction/{uuid}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.GetTransaction(transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransaction.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to record a buy or sell.
// The whole ledger for the ticker is replayed before the write; a sell
// that would exceed the held quantity is rejected and nothing is stored.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest (ticker, type, quantity, price, fee, date)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if a sell exceeds the held quantity
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.transactionService.CreateTransaction(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientQuantity) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrInsufficientQuantity.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// UpdateTransaction handles PUT requests to edit a recorded transaction.
// The edited ledger is replayed in full before the write; an edit that
// would leave any sell short is rejected.
//
// Endpoint: PUT /api/transaction/{uuid}
// Request Body: UpdateTransactionRequest (all fields optional)
// Response: 200 OK with updated Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if transaction not found
// Error: 409 Conflict if the edit would leave a sell short
// Error: 500 Internal Server Error if update fails
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(r.Context(), transactionID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		if errors.Is(err, apperrors.ErrInsufficientQuantity) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrInsufficientQuantity.Error(), err.Error())
			return
		}

		response.RespondError(w, http.StatusInternalServerError, "failed to update transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// DeleteTransaction handles DELETE requests to remove a transaction.
// Removing a buy that later sells depend on is rejected.
//
// Endpoint: DELETE /api/transaction/{uuid}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 409 Conflict if the removal would leave a sell short
// Error: 500 Internal Server Error if deletion fails
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	err := h.transactionService.DeleteTransaction(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		if errors.Is(err, apperrors.ErrInsufficientQuantity) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrInsufficientQuantity.Error(), err.Error())
			return
		}

		response.RespondError(w, http.StatusInternalServerError, "failed to delete transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
