package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/cartlyapp/cartly-server/internal/domain"
	"github.com/cartlyapp/cartly-server/internal/store"
)

// DefaultSuggestionLimit is used when the caller does not bound the
// suggestion count.
const DefaultSuggestionLimit = 5

// SuggestionService serves "frequently bought" suggestions from the
// purchase history.
type SuggestionService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSuggestionService creates a new suggestion service.
func NewSuggestionService(store *store.Store, logger *slog.Logger) *SuggestionService {
	return &SuggestionService{
		store:  store,
		logger: logger,
	}
}

// TopSuggestions returns up to limit purchase records ordered by
// frequency descending. Equal frequencies are broken by most recent
// lastPurchased, so the ranking is deterministic.
func (s *SuggestionService) TopSuggestions(ctx context.Context, userID string, limit int) ([]domain.PurchaseRecord, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	records, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// History returns the user's full purchase history, most frequent first.
func (s *SuggestionService) History(ctx context.Context, userID string) ([]domain.PurchaseRecord, error) {
	records, err := s.store.ListPurchaseRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchase records: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Frequency != records[j].Frequency {
			return records[i].Frequency > records[j].Frequency
		}
		return records[i].LastPurchased.After(records[j].LastPurchased)
	})

	return records, nil
}
