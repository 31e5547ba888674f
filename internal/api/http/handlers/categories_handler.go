package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/record-service/internal/api/dto"
	"github.com/spec-kit/record-service/internal/auth"
	"github.com/spec-kit/record-service/internal/domain"
	"github.com/spec-kit/record-service/internal/service"
	apperrors "github.com/spec-kit/record-service/pkg/util"
)

// CategoriesHandler exposes category CRUD for the authenticated user.
type CategoriesHandler struct {
	categories *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categories *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{categories: categories}
}

// List handles GET /api/category/list.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	identity, err := auth.RequireIdentity(c)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	categories, err := h.categories.List(c.Context(), identity.Subject, parseCategoryType(c.Query("type")))
	if err != nil {
		return err
	}

	views := make([]*dto.CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, dto.NewCategoryView(category))
	}
	return c.JSON(dto.OK(views))
}

// Tree handles GET /api/category/tree.
func (h *CategoriesHandler) Tree(c *fiber.Ctx) error {
	identity, err := auth.RequireIdentity(c)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	nodes, err := h.categories.Tree(c.Context(), identity.Subject, parseCategoryType(c.Query("type")))
	if err != nil {
		return err
	}

	views := make([]*dto.CategoryTreeView, 0, len(nodes))
	for _, node := range nodes {
		views = append(views, dto.NewCategoryTreeView(node))
	}
	return c.JSON(dto.OK(views))
}

// Get handles GET /api/category/:id.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	identity, err := auth.RequireIdentity(c)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	category, err := h.categories.Get(c.Context(), identity.Subject, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewCategoryView(category)))
}

// Create handles POST /api/category.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	identity, err := auth.RequireIdentity(c)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	category, err := h.categories.Create(c.Context(), identity.Subject, categoryFromRequest(&req))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewCategoryView(category)))
}

// Update handles PUT /api/category/:id.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	identity, err := auth.RequireIdentity(c)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	category := categoryFromRequest(&req)
	category.ID = id
	updated, err := h.categories.Update(c.Context(), identity.Subject, category)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewCategoryView(updated)))
}

// Delete handles DELETE /api/category/:id.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	identity, err := auth.RequireIdentity(c)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.categories.Delete(c.Context(), identity.Subject, id); err != nil {
		return err
	}
	return c.JSON(dto.OK(nil))
}

func categoryFromRequest(req *dto.CategoryRequest) *domain.Category {
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	return &domain.Category{
		Name:        req.Name,
		Code:        req.Code,
		ParentID:    req.ParentID,
		Type:        domain.CategoryType(req.Type),
		Icon:        req.Icon,
		Color:       req.Color,
		SortOrder:   req.SortOrder,
		Enabled:     enabled,
		Description: req.Description,
	}
}

func parseCategoryType(raw string) *domain.CategoryType {
	if raw == "" {
		return nil
	}
	categoryType := domain.CategoryType(raw)
	return &categoryType
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequest("invalid id")
	}
	return id, nil
}
