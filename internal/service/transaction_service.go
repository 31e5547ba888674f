package service

import (
	"context"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/record-service/internal/domain"
	"github.com/spec-kit/record-service/internal/events"
	"github.com/spec-kit/record-service/internal/repository"
	apperrors "github.com/spec-kit/record-service/pkg/util"
)

// TransactionPage is one page of transaction listings.
type TransactionPage struct {
	Items    []*domain.Transaction
	Total    int64
	Page     int
	PageSize int
}

// TransactionService manages income/expense records.
type TransactionService struct {
	transactions repository.TransactionRepository
	categories   *CategoryService
	dispatcher   events.Dispatcher
}

// NewTransactionService builds the service.
func NewTransactionService(transactions repository.TransactionRepository, categories *CategoryService, dispatcher events.Dispatcher) *TransactionService {
	return &TransactionService{transactions: transactions, categories: categories, dispatcher: dispatcher}
}

// Create records a new transaction for the user.
func (s *TransactionService) Create(ctx context.Context, userID string, tx *domain.Transaction) (*domain.Transaction, error) {
	if tx.Type != domain.TransactionTypeIncome && tx.Type != domain.TransactionTypeExpense {
		return nil, apperrors.NewBadRequest("transaction type must be income or expense")
	}
	amount, ok := new(big.Rat).SetString(tx.Amount)
	if !ok || amount.Sign() <= 0 {
		return nil, apperrors.NewBadRequest("amount must be a positive decimal")
	}

	category, err := s.categories.Get(ctx, userID, tx.CategoryID)
	if err != nil {
		return nil, err
	}
	if string(category.Type) != string(tx.Type) {
		return nil, apperrors.NewBadRequest("category type does not match transaction type")
	}

	tx.UserID = userID
	tx.Amount = amount.FloatString(2)
	if tx.TransactionDate.IsZero() {
		tx.TransactionDate = time.Now()
	}
	if tx.Status == "" {
		tx.Status = domain.TransactionStatusCompleted
	}
	if tx.PaymentMethod == "" {
		tx.PaymentMethod = domain.PaymentMethodOther
	}
	if tx.Currency == "" {
		tx.Currency = "CNY"
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTransactionCreated,
			UserID:    userID,
			Timestamp: time.Now(),
			Payload: events.TransactionCreatedPayload{
				TransactionID: tx.ID,
				Type:          string(tx.Type),
				Amount:        tx.Amount,
				CategoryID:    tx.CategoryID,
			},
		})
	}
	return tx, nil
}

// Page lists the user's transactions with filters and pagination.
func (s *TransactionService) Page(ctx context.Context, filter repository.TransactionFilter) (*TransactionPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	items, total, err := s.transactions.Page(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &TransactionPage{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}
