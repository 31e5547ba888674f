package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/record-service/internal/domain"
	"github.com/spec-kit/record-service/internal/repository"
)

const statisticsCacheTTL = 5 * time.Minute

// Summary aggregates a user's money flow over a date range.
type Summary struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// CategoryBreakdownItem is the total for one category.
type CategoryBreakdownItem struct {
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
	Total        string `json:"total"`
}

// StatisticsService computes aggregate views over transactions,
// caching results briefly in redis.
type StatisticsService struct {
	transactions repository.TransactionRepository
	categories   repository.CategoryRepository
	cache        *redis.Client
	logger       *zap.Logger
}

// NewStatisticsService builds the service. The cache client may be nil.
func NewStatisticsService(transactions repository.TransactionRepository, categories repository.CategoryRepository, cache *redis.Client, logger *zap.Logger) *StatisticsService {
	return &StatisticsService{transactions: transactions, categories: categories, cache: cache, logger: logger}
}

// Summarize returns total income, expense and balance in the range.
func (s *StatisticsService) Summarize(ctx context.Context, userID string, start, end time.Time) (*Summary, error) {
	cacheKey := fmt.Sprintf("stats:summary:%s:%d:%d", userID, start.Unix(), end.Unix())
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		var summary Summary
		if err := json.Unmarshal(cached, &summary); err == nil {
			return &summary, nil
		}
	}

	income, err := s.transactions.SumByType(ctx, userID, domain.TransactionTypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	expense, err := s.transactions.SumByType(ctx, userID, domain.TransactionTypeExpense, start, end)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Income:  income,
		Expense: expense,
		Balance: subtractDecimal(income, expense),
	}
	s.toCache(ctx, cacheKey, summary)
	return summary, nil
}

// CategoryBreakdown returns per-category totals for one direction.
func (s *StatisticsService) CategoryBreakdown(ctx context.Context, userID string, txType domain.TransactionType, start, end time.Time) ([]CategoryBreakdownItem, error) {
	cacheKey := fmt.Sprintf("stats:breakdown:%s:%s:%d:%d", userID, txType, start.Unix(), end.Unix())
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		var items []CategoryBreakdownItem
		if err := json.Unmarshal(cached, &items); err == nil {
			return items, nil
		}
	}

	amounts, err := s.transactions.SumByCategory(ctx, userID, txType, start, end)
	if err != nil {
		return nil, err
	}

	categoryType := domain.CategoryType(txType)
	categories, err := s.categories.ListVisible(ctx, userID, &categoryType)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(categories))
	for _, category := range categories {
		names[category.ID] = category.Name
	}

	items := make([]CategoryBreakdownItem, 0, len(amounts))
	for _, amount := range amounts {
		items = append(items, CategoryBreakdownItem{
			CategoryID:   amount.CategoryID,
			CategoryName: names[amount.CategoryID],
			Total:        amount.Total,
		})
	}
	s.toCache(ctx, cacheKey, items)
	return items, nil
}

func (s *StatisticsService) fromCache(ctx context.Context, key string) []byte {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	return data
}

func (s *StatisticsService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, statisticsCacheTTL).Err(); err != nil {
		s.logger.Warn("statistics cache write failed", zap.Error(err))
	}
}

func subtractDecimal(a, b string) string {
	left, okA := new(big.Rat).SetString(a)
	right, okB := new(big.Rat).SetString(b)
	if !okA || !okB {
		return "0.00"
	}
	return new(big.Rat).Sub(left, right).FloatString(2)
}
