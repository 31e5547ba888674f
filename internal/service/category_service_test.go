package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/record-service/internal/domain"
	apperrors "github.com/spec-kit/record-service/pkg/util"
)

type fakeCategoryRepo struct {
	categories map[int64]*domain.Category
	nextID     int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[int64]*domain.Category), nextID: 1}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	category.ID = r.nextID
	r.nextID++
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) ListVisible(_ context.Context, userID string, categoryType *domain.CategoryType) ([]*domain.Category, error) {
	var visible []*domain.Category
	for id := int64(1); id < r.nextID; id++ {
		category, ok := r.categories[id]
		if !ok || !category.Enabled {
			continue
		}
		if category.UserID != nil && *category.UserID != userID {
			continue
		}
		if categoryType != nil && category.Type != *categoryType {
			continue
		}
		copied := *category
		visible = append(visible, &copied)
	}
	return visible, nil
}

func (r *fakeCategoryRepo) seed(category *domain.Category) *domain.Category {
	_ = r.Create(context.Background(), category)
	return category
}

func systemCategory(name string, categoryType domain.CategoryType) *domain.Category {
	return &domain.Category{Name: name, Type: categoryType, Level: 1, IsSystem: true, Enabled: true}
}

func userCategory(userID, name string, categoryType domain.CategoryType, parentID *int64) *domain.Category {
	return &domain.Category{UserID: &userID, Name: name, Type: categoryType, Level: 1, Enabled: true, ParentID: parentID}
}

func TestCategoryTreeNesting(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	food := repo.seed(systemCategory("food", domain.CategoryTypeExpense))
	child := userCategory("u1", "lunch", domain.CategoryTypeExpense, &food.ID)
	child.Level = 2
	repo.seed(child)
	repo.seed(systemCategory("salary", domain.CategoryTypeIncome))

	roots, err := svc.Tree(context.Background(), "u1", nil)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("roots = %d, want 2", len(roots))
	}

	byName := make(map[string]*CategoryNode, len(roots))
	for _, root := range roots {
		byName[root.Name] = root
	}
	foodNode, ok := byName["food"]
	if !ok {
		t.Fatal("food root missing")
	}
	if len(foodNode.Children) != 1 || foodNode.Children[0].Name != "lunch" {
		t.Fatalf("food children = %v, want [lunch]", foodNode.Children)
	}
	if salary := byName["salary"]; salary == nil || len(salary.Children) != 0 {
		t.Fatal("salary root missing or has unexpected children")
	}
}

func TestCategoryTreeSurfacesOrphans(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	missingParent := int64(999)
	orphan := userCategory("u1", "orphan", domain.CategoryTypeExpense, &missingParent)
	orphan.Level = 2
	repo.seed(orphan)

	roots, err := svc.Tree(context.Background(), "u1", nil)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if len(roots) != 1 || roots[0].Name != "orphan" {
		t.Fatalf("roots = %v, want orphan surfaced at root", roots)
	}
}

func TestCategoryGetHidesForeign(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	foreign := repo.seed(userCategory("u2", "private", domain.CategoryTypeExpense, nil))

	_, err := svc.Get(context.Background(), "u1", foreign.ID)
	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != 404 {
		t.Fatalf("get foreign category = %v, want 404", err)
	}
}

func TestCategoryCreateEnforcesDepthAndType(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	root := repo.seed(systemCategory("food", domain.CategoryTypeExpense))

	child, err := svc.Create(context.Background(), "u1", &domain.Category{
		Name:     "lunch",
		Type:     domain.CategoryTypeExpense,
		ParentID: &root.ID,
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if child.Level != 2 {
		t.Fatalf("child level = %d, want 2", child.Level)
	}

	if _, err := svc.Create(context.Background(), "u1", &domain.Category{
		Name:     "too deep",
		Type:     domain.CategoryTypeExpense,
		ParentID: &child.ID,
	}); err == nil {
		t.Fatal("third level accepted")
	}

	if _, err := svc.Create(context.Background(), "u1", &domain.Category{
		Name:     "mismatched",
		Type:     domain.CategoryTypeIncome,
		ParentID: &root.ID,
	}); err == nil {
		t.Fatal("income child under expense parent accepted")
	}
}

func TestCategorySystemImmutable(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	system := repo.seed(systemCategory("food", domain.CategoryTypeExpense))

	if _, err := svc.Update(context.Background(), "u1", &domain.Category{ID: system.ID, Name: "renamed"}); err == nil {
		t.Fatal("system category update accepted")
	}
	if err := svc.Delete(context.Background(), "u1", system.ID); err == nil {
		t.Fatal("system category delete accepted")
	}
}
