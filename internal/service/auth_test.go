package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/cartlyapp/cartly-server/internal/errors"
)

func TestAuthService_Register_Success(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	resp, err := svc.auth.Register(ctx, RegisterRequest{
		Email:       "anna@example.com",
		Password:    "supersecret123",
		DisplayName: "Anna",
		Phone:       "+49123456789",
		DeviceInfo:  testDevice(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "anna@example.com", resp.User.Email)
	assert.Equal(t, "Anna", resp.User.DisplayName)
	assert.NotEqual(t, "supersecret123", resp.User.PasswordHash)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)

	// Registration creates the default settings document.
	settings, err := svc.store.GetUserSettings(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.True(t, settings.Notifications)
	assert.False(t, settings.DarkMode)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	registerTestUser(t, svc, "anna@example.com")

	_, err := svc.auth.Register(ctx, RegisterRequest{
		Email:       "ANNA@example.com", // Email uniqueness is case-insensitive
		Password:    "anotherpassword",
		DisplayName: "Fake Anna",
		DeviceInfo:  testDevice(),
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing email", RegisterRequest{Password: "supersecret123", DisplayName: "A", DeviceInfo: testDevice()}},
		{"bad email", RegisterRequest{Email: "not-an-email", Password: "supersecret123", DisplayName: "A", DeviceInfo: testDevice()}},
		{"short password", RegisterRequest{Email: "a@example.com", Password: "short", DisplayName: "A", DeviceInfo: testDevice()}},
		{"missing display name", RegisterRequest{Email: "a@example.com", Password: "supersecret123", DeviceInfo: testDevice()}},
		{"missing device info", RegisterRequest{Email: "a@example.com", Password: "supersecret123", DisplayName: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.auth.Register(ctx, tt.req)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	registerTestUser(t, svc, "anna@example.com")

	resp, err := svc.auth.Login(ctx, LoginRequest{
		Email:      "anna@example.com",
		Password:   "correct-horse-battery",
		DeviceInfo: testDevice(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.SessionID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	registerTestUser(t, svc, "anna@example.com")

	_, err := svc.auth.Login(ctx, LoginRequest{
		Email:      "anna@example.com",
		Password:   "wrong-password",
		DeviceInfo: testDevice(),
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()

	// Unknown email surfaces the same error as a wrong password.
	_, err := svc.auth.Login(context.Background(), LoginRequest{
		Email:      "nobody@example.com",
		Password:   "whatever-password",
		DeviceInfo: testDevice(),
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_RefreshTokens_Rotation(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	resp, err := svc.auth.Register(ctx, RegisterRequest{
		Email:       "anna@example.com",
		Password:    "supersecret123",
		DisplayName: "Anna",
		DeviceInfo:  testDevice(),
	})
	require.NoError(t, err)

	refreshed, err := svc.auth.RefreshTokens(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, resp.SessionID, refreshed.SessionID)

	// The old refresh token is dead after rotation.
	_, err = svc.auth.RefreshTokens(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestAuthService_Logout(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	resp, err := svc.auth.Register(ctx, RegisterRequest{
		Email:       "anna@example.com",
		Password:    "supersecret123",
		DisplayName: "Anna",
		DeviceInfo:  testDevice(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.auth.Logout(ctx, resp.SessionID))

	_, err = svc.auth.RefreshTokens(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestAuthService_VerifyAccessToken(t *testing.T) {
	svc, cleanup := setupServices(t)
	defer cleanup()
	ctx := context.Background()

	resp, err := svc.auth.Register(ctx, RegisterRequest{
		Email:       "anna@example.com",
		Password:    "supersecret123",
		DisplayName: "Anna",
		DeviceInfo:  testDevice(),
	})
	require.NoError(t, err)

	user, claims, err := svc.auth.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "anna@example.com", claims.Email)

	_, _, err = svc.auth.VerifyAccessToken(ctx, "v4.local.garbage")
	assert.Error(t, err)
}
