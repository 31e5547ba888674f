package domain

import "time"

// CategoryType partitions categories by money direction.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category is a spending or income classification. System categories
// have no owner and are visible to all users; user categories belong
// to the creating user only. Hierarchy is two levels deep.
type Category struct {
	ID          int64
	UserID      *string
	Name        string
	Code        string
	ParentID    *int64
	Level       int
	Type        CategoryType
	Icon        string
	Color       string
	SortOrder   int
	IsSystem    bool
	Enabled     bool
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
