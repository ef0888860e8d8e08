package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "anna@example.com",
		"password":     "correct-horse-battery",
		"display_name": "Anna",
		"device_info": map[string]any{
			"device_type": "mobile",
			"platform":    "iOS",
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, 1, envelope.V)
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.Equal(t, "anna@example.com", envelope.Data.User.Email)
	assert.Equal(t, "Anna", envelope.Data.User.DisplayName)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.registerUser(t, "anna@example.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "anna@example.com",
		"password":     "another-password-123",
		"display_name": "Anna Again",
		"device_info": map[string]any{
			"device_type": "mobile",
			"platform":    "Android",
		},
	})
	require.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "ALREADY_EXISTS", envelope.Code)
}

func TestRegister_ValidationErrors(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing email",
			body: map[string]any{
				"password":     "correct-horse-battery",
				"display_name": "Anna",
				"device_info":  map[string]any{"device_type": "mobile", "platform": "iOS"},
			},
		},
		{
			name: "short password",
			body: map[string]any{
				"email":        "anna@example.com",
				"password":     "short",
				"display_name": "Anna",
				"device_info":  map[string]any{"device_type": "mobile", "platform": "iOS"},
			},
		},
		{
			name: "missing display name",
			body: map[string]any{
				"email":       "anna@example.com",
				"password":    "correct-horse-battery",
				"device_info": map[string]any{"device_type": "mobile", "platform": "iOS"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
		})
	}
}

func TestLogin_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.registerUser(t, "anna@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "anna@example.com",
		"password": "correct-horse-battery",
		"device_info": map[string]any{
			"device_type": "mobile",
			"platform":    "iOS",
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, "anna@example.com", envelope.Data.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ts.registerUser(t, "anna@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "anna@example.com",
		"password": "wrong-password-entirely",
		"device_info": map[string]any{
			"device_type": "mobile",
			"platform":    "iOS",
		},
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "correct-horse-battery",
		"device_info": map[string]any{
			"device_type": "mobile",
			"platform":    "iOS",
		},
	})

	// Unknown email and wrong password are indistinguishable.
	require.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Code)
}

func TestRefresh_RotatesToken(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "anna@example.com",
		"password":     "correct-horse-battery",
		"display_name": "Anna",
		"device_info":  map[string]any{"device_type": "mobile", "platform": "iOS"},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var registered testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": registered.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var refreshed testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &refreshed))
	assert.NotEqual(t, registered.Data.RefreshToken, refreshed.Data.RefreshToken)
	assert.Equal(t, registered.Data.SessionID, refreshed.Data.SessionID)

	// The old refresh token is burned by rotation.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": registered.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "anna@example.com",
		"password":     "correct-horse-battery",
		"display_name": "Anna",
		"device_info":  map[string]any{"device_type": "mobile", "platform": "iOS"},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var registered testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": registered.Data.SessionID,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": registered.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/api/v1/lists")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/lists", "Authorization: Bearer not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
