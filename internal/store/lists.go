package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/cartlyapp/cartly-server/internal/domain"
	"github.com/cartlyapp/cartly-server/internal/sse"
)

// Key prefixes for list storage.
const (
	listPrefix         = "list:"
	listsByOwnerPrefix = "idx:lists:owner:"
)

var (
	// ErrListNotFound is returned when a list cannot be found by ID.
	ErrListNotFound = ErrNotFound.WithMessage("list not found")
	// ErrDuplicateList is returned when creating a list with an existing ID.
	ErrDuplicateList = ErrAlreadyExists.WithMessage("list already exists")
	// ErrListCompleted is returned when completing a list that is already completed.
	ErrListCompleted = errors.New("list already completed")
)

// CreateList creates a new list along with its owner index.
func (s *Store) CreateList(_ context.Context, list *domain.List) error {
	key := []byte(listPrefix + list.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check list exists: %w", err)
	}
	if exists {
		return ErrDuplicateList
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("marshal list: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		// Owner index: idx:lists:owner:{ownerID}:{listID}
		ownerIndexKey := fmt.Appendf(nil, "%s%s:%s", listsByOwnerPrefix, list.OwnerID, list.ID)
		if err := txn.Set(ownerIndexKey, []byte{}); err != nil {
			return fmt.Errorf("set owner index: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("create list: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("list created",
			"id", list.ID,
			"name", list.Name,
			"owner_id", list.OwnerID,
		)
	}
	if s.eventEmitter != nil {
		s.eventEmitter.Emit(sse.NewListCreatedEvent(list))
	}
	return nil
}

// GetList retrieves a list by ID.
func (s *Store) GetList(_ context.Context, id string) (*domain.List, error) {
	key := []byte(listPrefix + id)

	var list domain.List
	if err := s.get(key, &list); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("get list: %w", err)
	}

	return &list, nil
}

// UpdateList updates an existing list.
func (s *Store) UpdateList(ctx context.Context, list *domain.List) error {
	key := []byte(listPrefix + list.ID)

	// Existence check keeps update from resurrecting a deleted list.
	if _, err := s.GetList(ctx, list.ID); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("marshal list: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("list updated", "id", list.ID, "name", list.Name)
	}
	if s.eventEmitter != nil {
		s.eventEmitter.Emit(sse.NewListUpdatedEvent(list))
	}
	return nil
}

// CompleteList transitions a list to completed inside a single transaction.
// The purchased cost is recomputed from the items as they exist at commit
// time, and the completed flag is re-checked under the same transaction so
// two racing completions cannot both win.
func (s *Store) CompleteList(_ context.Context, id string) (*domain.List, error) {
	key := []byte(listPrefix + id)
	now := time.Now()

	var list domain.List
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrListNotFound
		}
		if err != nil {
			return fmt.Errorf("get list: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &list)
		}); err != nil {
			return fmt.Errorf("unmarshal list: %w", err)
		}

		if list.Completed {
			return ErrListCompleted
		}

		items, err := itemsForListTxn(txn, id)
		if err != nil {
			return err
		}
		totals := domain.Aggregate(items)
		if math.IsNaN(totals.PurchasedCost) || math.IsInf(totals.PurchasedCost, 0) || totals.PurchasedCost < 0 {
			return ErrInvalidInput.WithMessage("completion total is not a valid amount")
		}

		list.MarkCompleted(totals.PurchasedCost, now)

		data, err := json.Marshal(&list)
		if err != nil {
			return fmt.Errorf("marshal list: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("list completed",
			"id", list.ID,
			"total_spent", list.TotalSpent,
		)
	}
	if s.eventEmitter != nil {
		s.eventEmitter.Emit(sse.NewListCompletedEvent(&list))
	}
	return &list, nil
}

// DeleteList deletes a list, its owner index, and all of its items.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	// Get list to retrieve owner for index cleanup.
	list, err := s.GetList(ctx, id)
	if err != nil {
		return err
	}

	// Cascade the items first so a crash leaves no orphans behind a live list.
	if err := s.DeleteItemsForList(ctx, id); err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		key := []byte(listPrefix + id)
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete list: %w", err)
		}

		ownerIndexKey := fmt.Appendf(nil, "%s%s:%s", listsByOwnerPrefix, list.OwnerID, id)
		if err := txn.Delete(ownerIndexKey); err != nil {
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete owner index: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("list deleted", "id", id)
	}
	if s.eventEmitter != nil {
		s.eventEmitter.Emit(sse.NewListDeletedEvent(list.OwnerID, id))
	}
	return nil
}

// ListListsByOwner returns all lists owned by a user.
func (s *Store) ListListsByOwner(ctx context.Context, ownerID string) ([]*domain.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var listIDs []string

	// Scan owner index: idx:lists:owner:{ownerID}:{listID}
	prefix := fmt.Appendf(nil, "%s%s:", listsByOwnerPrefix, ownerID)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // We only need keys.
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			// Extract listID (everything after the last colon).
			listID := suffixAfterLastColon(string(key))
			if listID != "" {
				listIDs = append(listIDs, listID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan owner index: %w", err)
	}

	// Load the lists.
	lists := make([]*domain.List, 0, len(listIDs))
	for _, listID := range listIDs {
		list, err := s.GetList(ctx, listID)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to get list from index", "list_id", listID, "error", err)
			}
			continue
		}
		lists = append(lists, list)
	}

	return lists, nil
}

// DeleteListsForUser deletes all lists owned by a user.
// This is a cascade delete operation for user account cleanup.
func (s *Store) DeleteListsForUser(ctx context.Context, userID string) error {
	lists, err := s.ListListsByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list lists for user: %w", err)
	}

	for _, list := range lists {
		if err := s.DeleteList(ctx, list.ID); err != nil {
			return fmt.Errorf("delete list %s: %w", list.ID, err)
		}
	}

	if s.logger != nil {
		s.logger.Info("deleted lists for user",
			"user_id", userID,
			"count", len(lists),
		)
	}

	return nil
}

// suffixAfterLastColon extracts the trailing ID segment from an index key.
func suffixAfterLastColon(key string) string {
	lastColon := -1
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			lastColon = i
			break
		}
	}
	if lastColon == -1 || lastColon == len(key)-1 {
		return ""
	}
	return key[lastColon+1:]
}
