package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/cartlyapp/cartly-server/internal/domain"
	domainerrors "github.com/cartlyapp/cartly-server/internal/errors"
	"github.com/cartlyapp/cartly-server/internal/id"
	"github.com/cartlyapp/cartly-server/internal/store"
)

// ListService owns the shopping list lifecycle: creation, rename while
// open, the one-way completion transition, and deletion.
type ListService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewListService creates a new list service.
func NewListService(store *store.Store, logger *slog.Logger) *ListService {
	return &ListService{
		store:  store,
		logger: logger,
	}
}

// CreateListRequest contains the data for a new shopping list.
type CreateListRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Category string `json:"category,omitempty" validate:"omitempty,max=100"`
}

// ListSummary is a list together with its live totals, for overview screens.
type ListSummary struct {
	List      *domain.List  `json:"list"`
	Totals    domain.Totals `json:"totals"`
	ItemCount int           `json:"item_count"`
}

// ListDetail is a list with its (optionally filtered) items and totals.
// Totals are always computed over the full item set, not the filtered view.
type ListDetail struct {
	List   *domain.List  `json:"list"`
	Items  []domain.Item `json:"items"`
	Totals domain.Totals `json:"totals"`
}

// CreateList creates a new open list for a user. The name is trimmed
// before validation, so a whitespace-only name is rejected.
func (s *ListService) CreateList(ctx context.Context, userID string, req CreateListRequest) (*domain.List, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	listID, err := id.Generate("list")
	if err != nil {
		return nil, fmt.Errorf("generate list ID: %w", err)
	}

	list := &domain.List{
		Syncable: domain.Syncable{
			ID: listID,
		},
		OwnerID:  userID,
		Name:     req.Name,
		Category: req.Category,
	}
	list.InitTimestamps()

	if err := s.store.CreateList(ctx, list); err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("List created", "list_id", listID, "user_id", userID)
	}

	return list, nil
}

// GetList returns a list owned by the user.
// Lists belonging to other users surface as not found, never as forbidden.
func (s *ListService) GetList(ctx context.Context, userID, listID string) (*domain.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, domainerrors.NotFound("list not found")
		}
		return nil, fmt.Errorf("get list: %w", err)
	}
	if list.OwnerID != userID {
		return nil, domainerrors.NotFound("list not found")
	}
	return list, nil
}

// GetListDetail returns a list with its items narrowed by search text and
// purchase status. Totals always cover the full item set so the running
// sums do not change as the user types in the search box.
func (s *ListService) GetListDetail(ctx context.Context, userID, listID, search string, status domain.ItemStatus) (*ListDetail, error) {
	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	if status == "" {
		status = domain.ItemStatusAll
	}
	if !status.Valid() {
		return nil, domainerrors.Validationf("invalid status filter: %s", status)
	}

	items, err := s.store.ListItemsByList(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return &ListDetail{
		List:   list,
		Items:  domain.FilterItems(items, search, status),
		Totals: domain.Aggregate(items),
	}, nil
}

// ListLists returns all of a user's lists with their totals, newest first.
func (s *ListService) ListLists(ctx context.Context, userID string) ([]ListSummary, error) {
	lists, err := s.store.ListListsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}

	summaries := make([]ListSummary, 0, len(lists))
	for _, list := range lists {
		items, err := s.store.ListItemsByList(ctx, list.ID)
		if err != nil {
			return nil, fmt.Errorf("list items for %s: %w", list.ID, err)
		}
		summaries = append(summaries, ListSummary{
			List:      list,
			Totals:    domain.Aggregate(items),
			ItemCount: len(items),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].List.CreatedAt.After(summaries[j].List.CreatedAt)
	})

	return summaries, nil
}

// CompletedLists returns the user's completed lists, most recent first.
func (s *ListService) CompletedLists(ctx context.Context, userID string) ([]*domain.List, error) {
	lists, err := s.store.ListListsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}

	completed := make([]*domain.List, 0, len(lists))
	for _, list := range lists {
		if list.Completed {
			completed = append(completed, list)
		}
	}

	sort.SliceStable(completed, func(i, j int) bool {
		a, b := completed[i].CompletedAt, completed[j].CompletedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})

	return completed, nil
}

// RenameList changes a list's name. Only open lists can be renamed.
func (s *ListService) RenameList(ctx context.Context, userID, listID, newName string) (*domain.List, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, domainerrors.Validation("name is required")
	}

	list, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	if list.Completed {
		return nil, domainerrors.InvalidState("completed lists cannot be renamed")
	}

	list.Name = newName
	list.Touch()
	if err := s.store.UpdateList(ctx, list); err != nil {
		return nil, fmt.Errorf("update list: %w", err)
	}

	return list, nil
}

// CompleteList transitions a list from open to completed, freezing the
// purchased-cost snapshot as totalSpent. A list completes exactly once;
// completing it again fails with an invalid state error.
func (s *ListService) CompleteList(ctx context.Context, userID, listID string) (*domain.List, error) {
	// Ownership check before the transition.
	if _, err := s.GetList(ctx, userID, listID); err != nil {
		return nil, err
	}

	list, err := s.store.CompleteList(ctx, listID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrListCompleted):
			return nil, domainerrors.InvalidState("list is already completed")
		case errors.Is(err, store.ErrListNotFound):
			return nil, domainerrors.NotFound("list not found")
		case errors.Is(err, store.ErrInvalidInput):
			return nil, domainerrors.Validation(err.Error())
		}
		return nil, fmt.Errorf("complete list: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("List completed",
			"list_id", listID,
			"user_id", userID,
			"total_spent", list.TotalSpent,
		)
	}

	return list, nil
}

// DeleteList removes a list in any state, cascading to its items.
func (s *ListService) DeleteList(ctx context.Context, userID, listID string) error {
	if _, err := s.GetList(ctx, userID, listID); err != nil {
		return err
	}

	if err := s.store.DeleteList(ctx, listID); err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return domainerrors.NotFound("list not found")
		}
		return fmt.Errorf("delete list: %w", err)
	}

	return nil
}
