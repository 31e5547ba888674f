package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/record-service/internal/domain"
)

// CategoryRepository defines persistence access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	// ListVisible returns system categories plus the user's own,
	// optionally filtered by type, ordered by sort order.
	ListVisible(ctx context.Context, userID string, categoryType *domain.CategoryType) ([]*domain.Category, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a Postgres-backed implementation.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

const categoryColumns = `id, user_id, name, code, parent_id, level, type, icon, color, sort_order, is_system, enabled, description, created_at, updated_at`

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (user_id, name, code, parent_id, level, type, icon, color, sort_order, is_system, enabled, description)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		category.UserID,
		category.Name,
		category.Code,
		category.ParentID,
		category.Level,
		category.Type,
		category.Icon,
		category.Color,
		category.SortOrder,
		category.IsSystem,
		category.Enabled,
		category.Description,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	const query = `
        UPDATE categories SET name=$1, code=$2, parent_id=$3, level=$4, type=$5, icon=$6, color=$7, sort_order=$8, enabled=$9, description=$10, updated_at=NOW()
        WHERE id=$11`

	cmd, err := r.pool.Exec(ctx, query,
		category.Name,
		category.Code,
		category.ParentID,
		category.Level,
		category.Type,
		category.Icon,
		category.Color,
		category.SortOrder,
		category.Enabled,
		category.Description,
		category.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories WHERE id=$1`
	return scanCategory(r.pool.QueryRow(ctx, query, id))
}

func (r *categoryRepository) ListVisible(ctx context.Context, userID string, categoryType *domain.CategoryType) ([]*domain.Category, error) {
	query := `
        SELECT ` + categoryColumns + `
        FROM categories
        WHERE (user_id IS NULL OR user_id=$1) AND enabled`
	args := []any{userID}
	if categoryType != nil {
		query += ` AND type=$2`
		args = append(args, *categoryType)
	}
	query += ` ORDER BY level, sort_order, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var category domain.Category
	if err := row.Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Code,
		&category.ParentID,
		&category.Level,
		&category.Type,
		&category.Icon,
		&category.Color,
		&category.SortOrder,
		&category.IsSystem,
		&category.Enabled,
		&category.Description,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}
