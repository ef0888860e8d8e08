package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cartlyapp/cartly-server/internal/domain"
	domainerrors "github.com/cartlyapp/cartly-server/internal/errors"
	"github.com/cartlyapp/cartly-server/internal/id"
	"github.com/cartlyapp/cartly-server/internal/store"
)

// ItemService manages items on a list: create, edit, toggle purchased,
// delete. Items on a completed list are frozen; every mutation checks the
// owning list is still open. Adding an item also feeds the purchase
// history recorder that drives suggestions.
type ItemService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewItemService creates a new item service.
func NewItemService(store *store.Store, logger *slog.Logger) *ItemService {
	return &ItemService{
		store:  store,
		logger: logger,
	}
}

// AddItemRequest contains the data for a new item.
type AddItemRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Note     string  `json:"note,omitempty" validate:"omitempty,max=500"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
}

// UpdateItemRequest contains partial item edits. Nil fields are unchanged.
type UpdateItemRequest struct {
	Name     *string  `json:"name,omitempty"`
	Note     *string  `json:"note,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
}

// AddItem creates an item on an open list. Validation failures surface
// before anything is written, so a rejected add never leaves a purchase
// history record behind. Names are trimmed before validation and storage,
// so a whitespace-only name is rejected and "Milk " and "Milk" share one
// history record.
func (s *ItemService) AddItem(ctx context.Context, userID, listID string, req AddItemRequest) (*domain.Item, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if math.IsNaN(req.Price) || math.IsInf(req.Price, 0) {
		return nil, domainerrors.Validation("price must be a finite number")
	}

	list, err := s.openList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	itemID, err := id.Generate("item")
	if err != nil {
		return nil, fmt.Errorf("generate item ID: %w", err)
	}

	item := &domain.Item{
		Syncable: domain.Syncable{
			ID: itemID,
		},
		OwnerID:  list.OwnerID,
		ListID:   listID,
		Name:     req.Name,
		Note:     req.Note,
		Price:    req.Price,
		Quantity: req.Quantity,
	}
	item.InitTimestamps()

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	// Feed the suggestion history. The add itself already succeeded, so a
	// history failure is logged rather than surfaced.
	historyID, err := id.Generate("hist")
	if err != nil {
		return nil, fmt.Errorf("generate history ID: %w", err)
	}
	record := &domain.PurchaseRecord{
		ID:            historyID,
		UserID:        userID,
		Name:          item.Name,
		Frequency:     1,
		LastPrice:     item.Price,
		LastPurchased: time.Now(),
		CreatedAt:     time.Now(),
	}
	if _, err := s.store.UpsertPurchase(ctx, record); err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to record purchase history",
				"user_id", userID,
				"item_name", item.Name,
				"error", err,
			)
		}
	}

	return item, nil
}

// UpdateItem applies partial edits to an item on an open list.
func (s *ItemService) UpdateItem(ctx context.Context, userID, itemID string, req UpdateItemRequest) (*domain.Item, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, domainerrors.Validation("name is required")
		}
		req.Name = &trimmed
	}
	if req.Price != nil && (math.IsNaN(*req.Price) || math.IsInf(*req.Price, 0) || *req.Price < 0) {
		return nil, domainerrors.Validation("price must be a non-negative finite number")
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, domainerrors.Validation("quantity must be a non-negative integer")
	}

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.openList(ctx, userID, item.ListID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Note != nil {
		item.Note = *req.Note
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	item.Touch()

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	return item, nil
}

// TogglePurchased flips an item's purchased flag. Each call flips; two
// calls restore the original state.
func (s *ItemService) TogglePurchased(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.openList(ctx, userID, item.ListID); err != nil {
		return nil, err
	}

	item.Purchased = !item.Purchased
	item.Touch()

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	return item, nil
}

// DeleteItem removes an item from an open list.
// Missing items fail with a not found error rather than silently.
func (s *ItemService) DeleteItem(ctx context.Context, userID, itemID string) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if _, err := s.openList(ctx, userID, item.ListID); err != nil {
		return err
	}

	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return domainerrors.NotFound("item not found")
		}
		return fmt.Errorf("delete item: %w", err)
	}

	return nil
}

// GetItem returns an item owned by the user.
func (s *ItemService) GetItem(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	return s.ownedItem(ctx, userID, itemID)
}

// ownedItem loads an item and verifies ownership. Items belonging to
// other users surface as not found.
func (s *ItemService) ownedItem(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, domainerrors.NotFound("item not found")
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item.OwnerID != userID {
		return nil, domainerrors.NotFound("item not found")
	}
	return item, nil
}

// openList loads a list, verifies ownership, and rejects mutations once
// the list has completed.
func (s *ItemService) openList(ctx context.Context, userID, listID string) (*domain.List, error) {
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
	if list.Completed {
		return nil, domainerrors.InvalidState("items on a completed list cannot be changed")
	}
	return list, nil
}
