package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mverdier/equitrack/internal/api/request"
	"github.com/mverdier/equitrack/internal/apperrors"
	"github.com/mverdier/equitrack/internal/fifo"
	"github.com/mverdier/equitrack/internal/model"
	"github.com/mverdier/equitrack/internal/repository"
)

// TransactionService handles ledger mutations and queries. Every mutation
// is serialized behind a single mutex so that concurrent appends can never
// interleave in a way that makes FIFO ordering ambiguous, and the sell
// invariant (cumulative sells never exceed cumulative buys) is re-checked
// against a full replay before anything is written.
type TransactionService struct {
	ledgerRepo *repository.LedgerRepository

	mu sync.Mutex // single ledger writer
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(ledgerRepo *repository.LedgerRepository) *TransactionService {
	return &TransactionService{ledgerRepo: ledgerRepo}
}

// CreateTransaction validates and appends a transaction to the ledger.
// A sell exceeding the ticker's current open quantity is rejected with
// ErrInsufficientQuantity and leaves the ledger untouched.
func (s *TransactionService) CreateTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Transaction, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	transaction := &model.Transaction{
		ID:          uuid.New().String(),
		Ticker:      req.Ticker,
		CompanyName: req.CompanyName,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Fee:         req.Fee,
		Date:        date,
		TotalCost:   model.ComputeTotalCost(req.Type, req.Quantity, req.Price, req.Fee),
		Note:        req.Note,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLedgerWith(transaction.Ticker, transaction, ""); err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.InsertTransaction(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return transaction, nil
}

// UpdateTransaction applies a partial edit to an existing transaction. The
// whole ticker history is replayed with the edit in place first; an edit
// that would make any later sell exceed the open quantity is rejected.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, req request.UpdateTransactionRequest) (*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transaction, err := s.ledgerRepo.GetTransaction(id)
	if err != nil {
		return nil, err
	}
	previousTicker := transaction.Ticker

	if req.Ticker != nil {
		transaction.Ticker = *req.Ticker
	}
	if req.CompanyName != nil {
		transaction.CompanyName = *req.CompanyName
	}
	if req.Type != nil {
		transaction.Type = *req.Type
	}
	if req.Quantity != nil {
		transaction.Quantity = *req.Quantity
	}
	if req.Price != nil {
		transaction.Price = *req.Price
	}
	if req.Fee != nil {
		transaction.Fee = *req.Fee
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, err
		}
		transaction.Date = date
	}
	if req.Note != nil {
		transaction.Note = *req.Note
	}
	transaction.TotalCost = model.ComputeTotalCost(transaction.Type, transaction.Quantity, transaction.Price, transaction.Fee)

	// Validate the edited history of the new ticker, and of the old one
	// when the edit moves the transaction across tickers.
	if err := s.checkLedgerWith(transaction.Ticker, &transaction, id); err != nil {
		return nil, err
	}
	if previousTicker != transaction.Ticker {
		if err := s.checkLedgerWith(previousTicker, nil, id); err != nil {
			return nil, err
		}
	}

	if err := s.ledgerRepo.UpdateTransaction(ctx, &transaction); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return &transaction, nil
}

// DeleteTransaction removes a transaction. Deleting a buy that later sells
// depend on is rejected with ErrInsufficientQuantity.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	transaction, err := s.ledgerRepo.GetTransaction(id)
	if err != nil {
		return err
	}

	if err := s.checkLedgerWith(transaction.Ticker, nil, id); err != nil {
		return err
	}

	return s.ledgerRepo.DeleteTransaction(ctx, id)
}

// GetTransaction retrieves a single transaction by its ID.
func (s *TransactionService) GetTransaction(id string) (model.Transaction, error) {
	return s.ledgerRepo.GetTransaction(id)
}

// ListTransactions retrieves all transactions, newest first.
func (s *TransactionService) ListTransactions() ([]model.Transaction, error) {
	return s.ledgerRepo.ListTransactions()
}

// ListTransactionsByTicker retrieves a ticker's transactions in ledger order.
func (s *TransactionService) ListTransactionsByTicker(ticker string) ([]model.Transaction, error) {
	return s.ledgerRepo.GetTransactionsByTicker(ticker)
}

// ListTransactionsByDateRange retrieves all transactions dated within
// [start, end], both bounds inclusive.
func (s *TransactionService) ListTransactionsByDateRange(start, end time.Time) ([]model.Transaction, error) {
	return s.ledgerRepo.GetTransactionsByDateRange(start, end)
}

// checkLedgerWith replays a ticker's history with one entry replaced,
// added or removed, and reports whether the resulting sequence still
// satisfies the sell invariant. excludeID removes the stored entry with
// that ID; replacement (when non-nil) is inserted at its ledger position.
func (s *TransactionService) checkLedgerWith(ticker string, replacement *model.Transaction, excludeID string) error {
	stored, err := s.ledgerRepo.GetTransactionsByTicker(ticker)
	if err != nil {
		return fmt.Errorf("failed to load ticker history: %w", err)
	}

	history := make([]model.Transaction, 0, len(stored)+1)
	for _, t := range stored {
		if t.ID == excludeID {
			continue
		}
		history = append(history, t)
	}
	if replacement != nil {
		history = append(history, *replacement)
		// Re-establish ledger order with the exact key the repository sorts
		// by: date, then created_at, then id. An edited entry keeps its
		// original CreatedAt, so a date edit onto a shared date lands at the
		// same tie position the stored ledger will replay it in.
		sort.SliceStable(history, func(i, j int) bool {
			if !history[i].Date.Equal(history[j].Date) {
				return history[i].Date.Before(history[j].Date)
			}
			if !history[i].CreatedAt.Equal(history[j].CreatedAt) {
				return history[i].CreatedAt.Before(history[j].CreatedAt)
			}
			return history[i].ID < history[j].ID
		})
	}

	if _, err := fifo.Replay(history); err != nil {
		return err
	}
	return nil
}

// ReplayTicker recomputes the realized gains and open lots for a ticker
// from its full ledger history.
func (s *TransactionService) ReplayTicker(ticker string) (fifo.Result, error) {
	transactions, err := s.ledgerRepo.GetTransactionsByTicker(ticker)
	if err != nil {
		return fifo.Result{}, err
	}
	if len(transactions) == 0 {
		return fifo.Result{}, fmt.Errorf("%w: %s", apperrors.ErrTickerNotFound, ticker)
	}
	return fifo.Replay(transactions)
}
