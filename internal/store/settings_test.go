package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartlyapp/cartly-server/internal/domain"
)

func TestUserSettingsRoundTrip(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	settings := domain.NewUserSettings("user-1")
	settings.DarkMode = true
	require.NoError(t, s.SaveUserSettings(ctx, settings))

	got, err := s.GetUserSettings(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, got.Notifications)
	assert.True(t, got.DarkMode)
	assert.False(t, got.AutoComplete)
}

func TestGetUserSettings_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetUserSettings(context.Background(), "user-missing")
	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestDeleteSettingsForUser(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, s.SaveUserSettings(ctx, domain.NewUserSettings("user-1")))
	require.NoError(t, s.DeleteSettingsForUser(ctx, "user-1"))

	_, err := s.GetUserSettings(ctx, "user-1")
	assert.ErrorIs(t, err, ErrSettingsNotFound)

	// Deleting settings that never existed is not an error.
	assert.NoError(t, s.DeleteSettingsForUser(ctx, "user-2"))
}
