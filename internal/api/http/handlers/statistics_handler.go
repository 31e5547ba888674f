package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/record-service/internal/api/dto"
	"github.com/spec-kit/record-service/internal/auth"
	"github.com/spec-kit/record-service/internal/domain"
	"github.com/spec-kit/record-service/internal/service"
	apperrors "github.com/spec-kit/record-service/pkg/util"
)

// StatisticsHandler exposes aggregate views over transactions.
type StatisticsHandler struct {
	statistics *service.StatisticsService
}

// NewStatisticsHandler constructs handler.
func NewStatisticsHandler(statistics *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statistics: statistics}
}

// Summary handles GET /api/statistics/summary.
func (h *StatisticsHandler) Summary(c *fiber.Ctx) error {
	identity, err := auth.RequireIdentity(c)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	start, end, err := statisticsRange(c)
	if err != nil {
		return err
	}

	summary, err := h.statistics.Summarize(c.Context(), identity.Subject, start, end)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(summary))
}

// Breakdown handles GET /api/statistics/breakdown.
func (h *StatisticsHandler) Breakdown(c *fiber.Ctx) error {
	identity, err := auth.RequireIdentity(c)
	if err != nil {
		return apperrors.NewUnauthorized("not authenticated")
	}

	txType := domain.TransactionType(c.Query("type", string(domain.TransactionTypeExpense)))
	if txType != domain.TransactionTypeIncome && txType != domain.TransactionTypeExpense {
		return apperrors.NewBadRequest("type must be income or expense")
	}

	start, end, err := statisticsRange(c)
	if err != nil {
		return err
	}

	items, err := h.statistics.CategoryBreakdown(c.Context(), identity.Subject, txType, start, end)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(items))
}

// statisticsRange reads the date range, defaulting to the last 30 days.
func statisticsRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if parsed, err := parseMillis(c.Query("startDate")); err != nil {
		return time.Time{}, time.Time{}, err
	} else if parsed != nil {
		start = *parsed
	}
	if parsed, err := parseMillis(c.Query("endDate")); err != nil {
		return time.Time{}, time.Time{}, err
	} else if parsed != nil {
		end = *parsed
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.NewBadRequest("endDate before startDate")
	}
	return start, end, nil
}
