package dto

import (
	"github.com/spec-kit/record-service/internal/domain"
	"github.com/spec-kit/record-service/internal/service"
)

// CategoryRequest payload for create and update.
type CategoryRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	ParentID    *int64 `json:"parentId"`
	Type        string `json:"type"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	SortOrder   int    `json:"sortOrder"`
	Enabled     *bool  `json:"enabled"`
	Description string `json:"description"`
}

// CategoryView is the serialized category.
type CategoryView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	ParentID    *int64 `json:"parentId"`
	Level       int    `json:"level"`
	Type        string `json:"type"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	SortOrder   int    `json:"sortOrder"`
	IsSystem    bool   `json:"isSystem"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

// CategoryTreeView nests child categories under their parent.
type CategoryTreeView struct {
	CategoryView
	Children []*CategoryTreeView `json:"children"`
}

// NewCategoryView maps a domain category.
func NewCategoryView(category *domain.Category) *CategoryView {
	return &CategoryView{
		ID:          category.ID,
		Name:        category.Name,
		Code:        category.Code,
		ParentID:    category.ParentID,
		Level:       category.Level,
		Type:        string(category.Type),
		Icon:        category.Icon,
		Color:       category.Color,
		SortOrder:   category.SortOrder,
		IsSystem:    category.IsSystem,
		Enabled:     category.Enabled,
		Description: category.Description,
	}
}

// NewCategoryTreeView maps a category node recursively.
func NewCategoryTreeView(node *service.CategoryNode) *CategoryTreeView {
	view := &CategoryTreeView{
		CategoryView: *NewCategoryView(node.Category),
		Children:     make([]*CategoryTreeView, 0, len(node.Children)),
	}
	for _, child := range node.Children {
		view.Children = append(view.Children, NewCategoryTreeView(child))
	}
	return view
}
