package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/record-service/internal/domain"
)

// TransactionFilter narrows paged transaction listings.
type TransactionFilter struct {
	UserID     string
	Type       *domain.TransactionType
	CategoryID *int64
	StartDate  *time.Time
	EndDate    *time.Time
	Keyword    string
	SortBy     string
	SortDesc   bool
	Page       int
	PageSize   int
}

// CategoryAmount aggregates spend per category.
type CategoryAmount struct {
	CategoryID int64
	Total      string
}

// TransactionRepository defines persistence access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	Page(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, int64, error)
	SumByType(ctx context.Context, userID string, txType domain.TransactionType, start, end time.Time) (string, error)
	SumByCategory(ctx context.Context, userID string, txType domain.TransactionType, start, end time.Time) ([]CategoryAmount, error)
}

type transactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository returns a Postgres-backed implementation.
func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, type, category_id, amount, description, transaction_date, payment_method, status, location, currency, tags, remark, created_at, updated_at`

var sortableColumns = map[string]string{
	"transaction_date": "transaction_date",
	"amount":           "amount",
	"created_at":       "created_at",
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	const query = `
        INSERT INTO transactions (user_id, type, category_id, amount, description, transaction_date, payment_method, status, location, currency, tags, remark)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		tx.UserID,
		tx.Type,
		tx.CategoryID,
		tx.Amount,
		tx.Description,
		tx.TransactionDate,
		tx.PaymentMethod,
		tx.Status,
		tx.Location,
		tx.Currency,
		tx.Tags,
		tx.Remark,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
}

func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	const query = `SELECT ` + transactionColumns + ` FROM transactions WHERE id=$1`
	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

func (r *transactionRepository) Page(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, int64, error) {
	where, args := buildTransactionWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM transactions ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "transaction_date"
	if col, ok := sortableColumns[filter.SortBy]; ok {
		orderBy = col
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := fmt.Sprintf(`SELECT %s FROM transactions %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		transactionColumns, where, orderBy, direction, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, total, rows.Err()
}

func (r *transactionRepository) SumByType(ctx context.Context, userID string, txType domain.TransactionType, start, end time.Time) (string, error) {
	const query = `
        SELECT COALESCE(SUM(amount), 0)::text
        FROM transactions
        WHERE user_id=$1 AND type=$2 AND status=$3 AND transaction_date BETWEEN $4 AND $5`

	var total string
	err := r.pool.QueryRow(ctx, query, userID, txType, domain.TransactionStatusCompleted, start, end).Scan(&total)
	return total, err
}

func (r *transactionRepository) SumByCategory(ctx context.Context, userID string, txType domain.TransactionType, start, end time.Time) ([]CategoryAmount, error) {
	const query = `
        SELECT category_id, COALESCE(SUM(amount), 0)::text
        FROM transactions
        WHERE user_id=$1 AND type=$2 AND status=$3 AND transaction_date BETWEEN $4 AND $5
        GROUP BY category_id
        ORDER BY SUM(amount) DESC`

	rows, err := r.pool.Query(ctx, query, userID, txType, domain.TransactionStatusCompleted, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var amounts []CategoryAmount
	for rows.Next() {
		var amount CategoryAmount
		if err := rows.Scan(&amount.CategoryID, &amount.Total); err != nil {
			return nil, err
		}
		amounts = append(amounts, amount)
	}
	return amounts, rows.Err()
}

func buildTransactionWhere(filter TransactionFilter) (string, []any) {
	clauses := []string{"user_id=$1"}
	args := []any{filter.UserID}

	addClause := func(condition string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(condition, len(args)))
	}

	if filter.Type != nil {
		addClause("type=$%d", *filter.Type)
	}
	if filter.CategoryID != nil {
		addClause("category_id=$%d", *filter.CategoryID)
	}
	if filter.StartDate != nil {
		addClause("transaction_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addClause("transaction_date <= $%d", *filter.EndDate)
	}
	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		clauses = append(clauses, fmt.Sprintf("(description ILIKE $%d OR remark ILIKE $%d)", len(args), len(args)))
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Type,
		&tx.CategoryID,
		&tx.Amount,
		&tx.Description,
		&tx.TransactionDate,
		&tx.PaymentMethod,
		&tx.Status,
		&tx.Location,
		&tx.Currency,
		&tx.Tags,
		&tx.Remark,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tx, nil
}
