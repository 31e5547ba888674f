package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/record-service/internal/domain"
	"github.com/spec-kit/record-service/internal/repository"
)

type fakeTransactionRepo struct {
	created []*domain.Transaction
	nextID  int64
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *domain.Transaction) error {
	r.nextID++
	tx.ID = r.nextID
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	copied := *tx
	r.created = append(r.created, &copied)
	return nil
}

func (r *fakeTransactionRepo) GetByID(context.Context, int64) (*domain.Transaction, error) {
	panic("not used")
}

func (r *fakeTransactionRepo) Page(context.Context, repository.TransactionFilter) ([]*domain.Transaction, int64, error) {
	return nil, 0, nil
}

func (r *fakeTransactionRepo) SumByType(context.Context, string, domain.TransactionType, time.Time, time.Time) (string, error) {
	return "0", nil
}

func (r *fakeTransactionRepo) SumByCategory(context.Context, string, domain.TransactionType, time.Time, time.Time) ([]repository.CategoryAmount, error) {
	return nil, nil
}

func newTestTransactionService(t *testing.T) (*TransactionService, *fakeTransactionRepo, *fakeCategoryRepo) {
	t.Helper()
	categories := newFakeCategoryRepo()
	transactions := &fakeTransactionRepo{}
	svc := NewTransactionService(transactions, NewCategoryService(categories), nil)
	return svc, transactions, categories
}

func TestTransactionCreateDefaultsAndNormalization(t *testing.T) {
	svc, repo, categories := newTestTransactionService(t)
	food := categories.seed(systemCategory("food", domain.CategoryTypeExpense))

	created, err := svc.Create(context.Background(), "u1", &domain.Transaction{
		Type:       domain.TransactionTypeExpense,
		CategoryID: food.ID,
		Amount:     "12.5",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Amount != "12.50" {
		t.Errorf("amount = %q, want 12.50", created.Amount)
	}
	if created.UserID != "u1" {
		t.Errorf("user = %q, want u1", created.UserID)
	}
	if created.Status != domain.TransactionStatusCompleted {
		t.Errorf("status = %q, want completed", created.Status)
	}
	if created.PaymentMethod != domain.PaymentMethodOther {
		t.Errorf("payment method = %q, want other", created.PaymentMethod)
	}
	if created.Currency != "CNY" {
		t.Errorf("currency = %q, want CNY", created.Currency)
	}
	if created.TransactionDate.IsZero() {
		t.Error("transaction date not defaulted")
	}
	if len(repo.created) != 1 {
		t.Fatalf("persisted %d transactions, want 1", len(repo.created))
	}
}

func TestTransactionCreateRejectsBadInput(t *testing.T) {
	svc, _, categories := newTestTransactionService(t)
	food := categories.seed(systemCategory("food", domain.CategoryTypeExpense))

	cases := []struct {
		name string
		tx   domain.Transaction
	}{
		{"unknown type", domain.Transaction{Type: "transfer", CategoryID: food.ID, Amount: "10"}},
		{"zero amount", domain.Transaction{Type: domain.TransactionTypeExpense, CategoryID: food.ID, Amount: "0"}},
		{"negative amount", domain.Transaction{Type: domain.TransactionTypeExpense, CategoryID: food.ID, Amount: "-5"}},
		{"non-numeric amount", domain.Transaction{Type: domain.TransactionTypeExpense, CategoryID: food.ID, Amount: "abc"}},
		{"missing category", domain.Transaction{Type: domain.TransactionTypeExpense, CategoryID: 999, Amount: "10"}},
		{"direction mismatch", domain.Transaction{Type: domain.TransactionTypeIncome, CategoryID: food.ID, Amount: "10"}},
	}
	for _, tc := range cases {
		tx := tc.tx
		if _, err := svc.Create(context.Background(), "u1", &tx); err == nil {
			t.Errorf("%s: accepted", tc.name)
		}
	}
}

func TestTransactionPageClampsPagination(t *testing.T) {
	svc, _, _ := newTestTransactionService(t)

	page, err := svc.Page(context.Background(), repository.TransactionFilter{UserID: "u1", Page: -3, PageSize: 5000})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Page != 1 || page.PageSize != 20 {
		t.Fatalf("page = %d/%d, want 1/20", page.Page, page.PageSize)
	}
}
