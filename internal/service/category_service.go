package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/record-service/internal/domain"
	"github.com/spec-kit/record-service/internal/repository"
	apperrors "github.com/spec-kit/record-service/pkg/util"
)

const maxCategoryLevel = 2

// CategoryNode is a category with its child categories attached.
type CategoryNode struct {
	*domain.Category
	Children []*CategoryNode
}

// CategoryService manages income/expense categories. System categories
// are shared and read-only; user categories are scoped to their owner.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService builds the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns the categories visible to the user.
func (s *CategoryService) List(ctx context.Context, userID string, categoryType *domain.CategoryType) ([]*domain.Category, error) {
	return s.categories.ListVisible(ctx, userID, categoryType)
}

// Tree returns visible categories arranged as a two-level hierarchy.
func (s *CategoryService) Tree(ctx context.Context, userID string, categoryType *domain.CategoryType) ([]*CategoryNode, error) {
	categories, err := s.categories.ListVisible(ctx, userID, categoryType)
	if err != nil {
		return nil, err
	}

	nodes := make(map[int64]*CategoryNode, len(categories))
	var roots []*CategoryNode
	for _, category := range categories {
		nodes[category.ID] = &CategoryNode{Category: category}
	}
	for _, category := range categories {
		node := nodes[category.ID]
		if category.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*category.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			// orphaned child, surface it at the root rather than drop it
			roots = append(roots, node)
		}
	}
	return roots, nil
}

// Get returns a category if the user may see it.
func (s *CategoryService) Get(ctx context.Context, userID string, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category")
		}
		return nil, err
	}
	if category.UserID != nil && *category.UserID != userID {
		return nil, apperrors.NewNotFound("category")
	}
	return category, nil
}

// Create adds a user-defined category.
func (s *CategoryService) Create(ctx context.Context, userID string, category *domain.Category) (*domain.Category, error) {
	if category.Name == "" {
		return nil, apperrors.NewBadRequest("category name required")
	}
	if category.Type != domain.CategoryTypeIncome && category.Type != domain.CategoryTypeExpense {
		return nil, apperrors.NewBadRequest("category type must be income or expense")
	}

	category.UserID = &userID
	category.IsSystem = false
	category.Enabled = true
	category.Level = 1

	if category.ParentID != nil {
		parent, err := s.Get(ctx, userID, *category.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Level >= maxCategoryLevel {
			return nil, apperrors.NewBadRequest("categories nest at most two levels")
		}
		if parent.Type != category.Type {
			return nil, apperrors.NewBadRequest("child category type must match parent")
		}
		category.Level = parent.Level + 1
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update modifies a user-owned category.
func (s *CategoryService) Update(ctx context.Context, userID string, category *domain.Category) (*domain.Category, error) {
	existing, err := s.Get(ctx, userID, category.ID)
	if err != nil {
		return nil, err
	}
	if existing.IsSystem || existing.UserID == nil {
		return nil, apperrors.NewForbidden("system categories cannot be modified")
	}
	if category.Name == "" {
		return nil, apperrors.NewBadRequest("category name required")
	}

	existing.Name = category.Name
	existing.Code = category.Code
	existing.Icon = category.Icon
	existing.Color = category.Color
	existing.SortOrder = category.SortOrder
	existing.Enabled = category.Enabled
	existing.Description = category.Description

	if err := s.categories.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes a user-owned category.
func (s *CategoryService) Delete(ctx context.Context, userID string, id int64) error {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if existing.IsSystem || existing.UserID == nil {
		return apperrors.NewForbidden("system categories cannot be deleted")
	}
	return s.categories.Delete(ctx, id)
}
