package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cartlyapp/cartly-server/internal/domain"
	"github.com/cartlyapp/cartly-server/internal/store"
)

// DefaultSpendingDays is the statistics window: the last 7 calendar days
// on which a list was completed.
const DefaultSpendingDays = 7

// StatsService computes spending statistics over a user's completed lists.
type StatsService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewStatsService creates a new statistics service.
func NewStatsService(store *store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		logger: logger,
	}
}

// SpendingStats returns daily and per-category spending for the user.
// Days bounds the daily series to the most recent active days; zero or
// negative uses the default window.
func (s *StatsService) SpendingStats(ctx context.Context, userID string, days int) (*domain.SpendingStats, error) {
	if days <= 0 {
		days = DefaultSpendingDays
	}

	lists, err := s.userLists(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := domain.ComputeSpendingStats(lists, days)
	return &stats, nil
}

// UserStats returns the user's profile counters: total lists, completed
// lists, and total spent across completions.
func (s *StatsService) UserStats(ctx context.Context, userID string) (*domain.UserStats, error) {
	lists, err := s.userLists(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := domain.ComputeUserStats(lists)
	return &stats, nil
}

func (s *StatsService) userLists(ctx context.Context, userID string) ([]domain.List, error) {
	lists, err := s.store.ListListsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}

	out := make([]domain.List, 0, len(lists))
	for _, list := range lists {
		out = append(out, *list)
	}
	return out, nil
}
