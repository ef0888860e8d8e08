package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/cartlyapp/cartly-server/internal/domain"
	"github.com/cartlyapp/cartly-server/internal/sse"
)

// Key prefixes for item storage.
const (
	itemPrefix        = "item:"
	itemsByListPrefix = "idx:items:list:"
)

var (
	// ErrItemNotFound is returned when an item cannot be found by ID.
	ErrItemNotFound = ErrNotFound.WithMessage("item not found")
	// ErrDuplicateItem is returned when creating an item with an existing ID.
	ErrDuplicateItem = ErrAlreadyExists.WithMessage("item already exists")
)

// CreateItem creates a new item along with its list index.
func (s *Store) CreateItem(_ context.Context, item *domain.Item) error {
	key := []byte(itemPrefix + item.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check item exists: %w", err)
	}
	if exists {
		return ErrDuplicateItem
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal item: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		// List index: idx:items:list:{listID}:{itemID}
		listIndexKey := fmt.Appendf(nil, "%s%s:%s", itemsByListPrefix, item.ListID, item.ID)
		if err := txn.Set(listIndexKey, []byte{}); err != nil {
			return fmt.Errorf("set list index: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("item created",
			"id", item.ID,
			"name", item.Name,
			"list_id", item.ListID,
		)
	}
	if s.eventEmitter != nil {
		s.eventEmitter.Emit(sse.NewItemCreatedEvent(item))
	}
	return nil
}

// GetItem retrieves an item by ID.
func (s *Store) GetItem(_ context.Context, id string) (*domain.Item, error) {
	key := []byte(itemPrefix + id)

	var item domain.Item
	if err := s.get(key, &item); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	return &item, nil
}

// UpdateItem updates an existing item.
func (s *Store) UpdateItem(ctx context.Context, item *domain.Item) error {
	key := []byte(itemPrefix + item.ID)

	if _, err := s.GetItem(ctx, item.ID); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal item: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("item updated", "id", item.ID, "name", item.Name)
	}
	if s.eventEmitter != nil {
		s.eventEmitter.Emit(sse.NewItemUpdatedEvent(item))
	}
	return nil
}

// DeleteItem deletes an item and its list index.
// Returns ErrItemNotFound if the item does not exist.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	// Get item to retrieve list ID for index cleanup.
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		key := []byte(itemPrefix + id)
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}

		listIndexKey := fmt.Appendf(nil, "%s%s:%s", itemsByListPrefix, item.ListID, id)
		if err := txn.Delete(listIndexKey); err != nil {
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete list index: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("item deleted", "id", id, "list_id", item.ListID)
	}
	if s.eventEmitter != nil {
		s.eventEmitter.Emit(sse.NewItemDeletedEvent(item.OwnerID, item.ListID, id))
	}
	return nil
}

// ListItemsByList returns all items on a list, oldest first.
func (s *Store) ListItemsByList(ctx context.Context, listID string) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var items []domain.Item
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		items, err = itemsForListTxn(txn, listID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// DeleteItemsForList deletes all items on a list.
// Called when the list itself is deleted.
func (s *Store) DeleteItemsForList(ctx context.Context, listID string) error {
	items, err := s.ListItemsByList(ctx, listID)
	if err != nil {
		return fmt.Errorf("list items for delete: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for i := range items {
			key := []byte(itemPrefix + items[i].ID)
			if err := txn.Delete(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete item: %w", err)
			}

			listIndexKey := fmt.Appendf(nil, "%s%s:%s", itemsByListPrefix, listID, items[i].ID)
			if err := txn.Delete(listIndexKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete list index: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete items for list: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("deleted items for list", "list_id", listID, "count", len(items))
	}
	return nil
}

// itemsForListTxn loads a list's items within an existing transaction.
// Shared with CompleteList so the completion snapshot reads the same
// item state that its transaction commits against.
func itemsForListTxn(txn *badger.Txn, listID string) ([]domain.Item, error) {
	var itemIDs []string

	// Scan list index: idx:items:list:{listID}:{itemID}
	prefix := fmt.Appendf(nil, "%s%s:", itemsByListPrefix, listID)

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false // We only need keys.
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		itemID := suffixAfterLastColon(string(it.Item().Key()))
		if itemID != "" {
			itemIDs = append(itemIDs, itemID)
		}
	}
	it.Close()

	items := make([]domain.Item, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		item, err := txn.Get([]byte(itemPrefix + itemID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			continue // Index pointing at a deleted item, skip it.
		}
		if err != nil {
			return nil, fmt.Errorf("get item: %w", err)
		}

		var out domain.Item
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		}); err != nil {
			return nil, fmt.Errorf("unmarshal item: %w", err)
		}
		items = append(items, out)
	}

	// Oldest first so the client sees items in the order they were added.
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}
