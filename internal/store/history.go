package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/cartlyapp/cartly-server/internal/domain"
)

// Key prefix for purchase history storage. Records are keyed by owner and
// exact item name, so the upsert-by-name lookup is a single point read and
// names never need to be parsed back out of keys.
const historyPrefix = "history:"

// ErrPurchaseRecordNotFound is returned when a purchase record cannot be found.
var ErrPurchaseRecordNotFound = ErrNotFound.WithMessage("purchase record not found")

func historyKey(userID, name string) []byte {
	return fmt.Appendf(nil, "%s%s:%s", historyPrefix, userID, name)
}

// UpsertPurchase records one purchase of an item name for a user inside a
// single transaction. The first purchase stores the record as given; later
// purchases increment its frequency and overwrite the price and timestamp.
// Matching is by exact name, case included.
func (s *Store) UpsertPurchase(_ context.Context, record *domain.PurchaseRecord) (*domain.PurchaseRecord, error) {
	key := historyKey(record.UserID, record.Name)

	var out domain.PurchaseRecord
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			out = *record
		case err != nil:
			return fmt.Errorf("get purchase record: %w", err)
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &out)
			}); err != nil {
				return fmt.Errorf("unmarshal purchase record: %w", err)
			}
			out.Record(record.LastPrice, record.LastPurchased)
		}

		data, err := json.Marshal(&out)
		if err != nil {
			return fmt.Errorf("marshal purchase record: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, fmt.Errorf("upsert purchase: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("purchase recorded",
			"user_id", out.UserID,
			"name", out.Name,
			"frequency", out.Frequency,
		)
	}
	return &out, nil
}

// GetPurchaseRecord retrieves a user's record for an exact item name.
func (s *Store) GetPurchaseRecord(_ context.Context, userID, name string) (*domain.PurchaseRecord, error) {
	var record domain.PurchaseRecord
	if err := s.get(historyKey(userID, name), &record); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrPurchaseRecordNotFound
		}
		return nil, fmt.Errorf("get purchase record: %w", err)
	}
	return &record, nil
}

// ListPurchaseRecords returns all purchase records for a user.
func (s *Store) ListPurchaseRecords(ctx context.Context, userID string) ([]domain.PurchaseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := fmt.Appendf(nil, "%s%s:", historyPrefix, userID)
	var records []domain.PurchaseRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record domain.PurchaseRecord
				if err := json.Unmarshal(val, &record); err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list purchase records: %w", err)
	}

	return records, nil
}

// DeleteHistoryForUser deletes all purchase records for a user.
// This is a cascade delete operation for user account cleanup.
func (s *Store) DeleteHistoryForUser(ctx context.Context, userID string) error {
	records, err := s.ListPurchaseRecords(ctx, userID)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for i := range records {
			if err := txn.Delete(historyKey(userID, records[i].Name)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete purchase record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete history for user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("deleted history for user", "user_id", userID, "count", len(records))
	}
	return nil
}
