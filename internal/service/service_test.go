package service

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cartlyapp/cartly-server/internal/auth"
	"github.com/cartlyapp/cartly-server/internal/store"
)

// testServices bundles the full service layer over one temporary store.
type testServices struct {
	store       *store.Store
	auth        *AuthService
	sessions    *SessionService
	lists       *ListService
	items       *ItemService
	suggestions *SuggestionService
	stats       *StatsService
	profile     *ProfileService
}

// setupServices creates the service layer with temporary storage for testing.
func setupServices(t *testing.T) (*testServices, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "cartly-service-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath, nil, store.NewNoopEmitter())
	require.NoError(t, err)

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	sessionService := NewSessionService(s, tokenService, nil)

	services := &testServices{
		store:       s,
		auth:        NewAuthService(s, tokenService, sessionService, nil),
		sessions:    sessionService,
		lists:       NewListService(s, nil),
		items:       NewItemService(s, nil),
		suggestions: NewSuggestionService(s, nil),
		stats:       NewStatsService(s, nil),
		profile:     NewProfileService(s, nil),
	}

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return services, cleanup
}

// testDevice is a valid device payload for auth flows.
func testDevice() auth.DeviceInfo {
	return auth.DeviceInfo{
		DeviceType:    "mobile",
		Platform:      "iOS",
		ClientName:    "Cartly Mobile",
		ClientVersion: "1.0.0",
	}
}

// registerTestUser creates a user and returns its ID.
func registerTestUser(t *testing.T, svc *testServices, email string) string {
	t.Helper()

	resp, err := svc.auth.Register(context.Background(), RegisterRequest{
		Email:       email,
		Password:    "correct-horse-battery",
		DisplayName: "Test User",
		DeviceInfo:  testDevice(),
	})
	require.NoError(t, err)
	return resp.User.ID
}
