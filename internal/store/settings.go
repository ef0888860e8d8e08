package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/cartlyapp/cartly-server/internal/domain"
)

// Key prefix for user settings storage. One document per user.
const settingsPrefix = "settings:"

// ErrSettingsNotFound is returned when a user has no settings document.
var ErrSettingsNotFound = ErrNotFound.WithMessage("user settings not found")

func settingsKey(userID string) []byte {
	return fmt.Appendf(nil, "%s%s", settingsPrefix, userID)
}

// SaveUserSettings writes the settings document for a user, creating or
// replacing it.
func (s *Store) SaveUserSettings(_ context.Context, settings *domain.UserSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(settingsKey(settings.UserID), data)
	})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// GetUserSettings retrieves the settings document for a user.
// Returns ErrSettingsNotFound if the user never saved settings.
func (s *Store) GetUserSettings(_ context.Context, userID string) (*domain.UserSettings, error) {
	var settings domain.UserSettings
	if err := s.get(settingsKey(userID), &settings); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &settings, nil
}

// DeleteSettingsForUser removes a user's settings document. Missing
// documents are not an error, so account deletion can always proceed.
func (s *Store) DeleteSettingsForUser(_ context.Context, userID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(settingsKey(userID))
	})
	if err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}
