package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/record-service/internal/api/dto"
	"github.com/spec-kit/record-service/internal/auth"
	"github.com/spec-kit/record-service/internal/domain"
	"github.com/spec-kit/record-service/internal/repository"
	"github.com/spec-kit/record-service/internal/service"
	apperrors "github.com/spec-kit/record-service/pkg/util"
)

// TransactionsHandler exposes transaction endpoints.
type TransactionsHandler struct {
	transactions *service.TransactionService
}

// NewTransactionsHandler constructs handler.
func NewTransactionsHandler(transactions *service.TransactionService) *TransactionsHandler {
	return &TransactionsHandler{transactions: transactions}
}

// Create handles POST /api/transaction/create.
func (h *TransactionsHandler) Create(c *fiber.Ctx) error {
	identity, err := auth.RequireIdentity(c)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	tx := &domain.Transaction{
		Type:          domain.TransactionType(req.Type),
		CategoryID:    req.CategoryID,
		Amount:        req.Amount,
		Description:   req.Description,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		Status:        domain.TransactionStatus(req.Status),
		Location:      req.Location,
		Currency:      req.Currency,
		Tags:          req.Tags,
		Remark:        req.Remark,
	}
	if req.TransactionDate > 0 {
		tx.TransactionDate = time.UnixMilli(req.TransactionDate)
	}

	created, err := h.transactions.Create(c.Context(), identity.Subject, tx)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewTransactionView(created)))
}

// Page handles GET /api/transaction/page.
func (h *TransactionsHandler) Page(c *fiber.Ctx) error {
	identity, err := auth.RequireIdentity(c)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	filter := repository.TransactionFilter{
		UserID:   identity.Subject,
		Keyword:  c.Query("keyword"),
		SortBy:   c.Query("sort"),
		SortDesc: c.Query("order", "desc") == "desc",
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 20),
	}

	if raw := c.Query("type"); raw != "" {
		txType := domain.TransactionType(raw)
		filter.Type = &txType
	}
	if raw := c.Query("categoryId"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return apperrors.NewBadRequest("invalid categoryId")
		}
		filter.CategoryID = &categoryID
	}
	if start, err := parseMillis(c.Query("startDate")); err != nil {
		return err
	} else if start != nil {
		filter.StartDate = start
	}
	if end, err := parseMillis(c.Query("endDate")); err != nil {
		return err
	} else if end != nil {
		filter.EndDate = end
	}

	page, err := h.transactions.Page(c.Context(), filter)
	if err != nil {
		return err
	}

	views := make([]*dto.TransactionView, 0, len(page.Items))
	for _, item := range page.Items {
		views = append(views, dto.NewTransactionView(item))
	}
	return c.JSON(dto.OK(dto.TransactionPageView{
		Items:    views,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}))
}

func parseMillis(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid date")
	}
	t := time.UnixMilli(millis)
	return &t, nil
}
