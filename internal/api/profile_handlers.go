package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cartlyapp/cartly-server/internal/domain"
	"github.com/cartlyapp/cartly-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile",
		Summary:     "Get profile",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/profile",
		Summary:     "Update profile",
		Description: "Updates display name and phone number",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile/settings",
		Summary:     "Get settings",
		Description: "Returns the user's app settings, defaults if never saved",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPatch,
		Path:        "/api/v1/profile/settings",
		Summary:     "Update settings",
		Description: "Updates app settings, leaving omitted fields unchanged",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "changePassword",
		Method:      http.MethodPost,
		Path:        "/api/v1/profile/password",
		Summary:     "Change password",
		Description: "Changes the password after verifying the current one",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleChangePassword)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile/sessions",
		Summary:     "List sessions",
		Description: "Returns the user's active sessions across devices",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSessions)
}

// === DTOs ===

// ProfileInput contains parameters for fetching the profile.
type ProfileInput struct {
	Authorization string `header:"Authorization"`
}

// ProfileOutput wraps the profile response for Huma.
type ProfileOutput struct {
	Body UserResponse
}

// UpdateProfileRequest is the request body for profile updates.
// Only fields present in the request are changed.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" doc:"Display name"`
	Phone       *string `json:"phone,omitempty" doc:"Phone number"`
}

// UpdateProfileInput wraps the profile update request for Huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateProfileRequest
}

// SettingsResponse contains the user's app settings.
type SettingsResponse struct {
	Notifications bool      `json:"notifications" doc:"Push notifications enabled"`
	DarkMode      bool      `json:"dark_mode" doc:"Dark mode enabled"`
	AutoComplete  bool      `json:"auto_complete" doc:"Mark items purchased when a price is entered"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update time"`
}

// SettingsOutput wraps the settings response for Huma.
type SettingsOutput struct {
	Body SettingsResponse
}

// GetSettingsInput contains parameters for fetching settings.
type GetSettingsInput struct {
	Authorization string `header:"Authorization"`
}

// UpdateSettingsRequest is the request body for settings updates.
type UpdateSettingsRequest struct {
	Notifications *bool `json:"notifications,omitempty" doc:"Push notifications enabled"`
	DarkMode      *bool `json:"dark_mode,omitempty" doc:"Dark mode enabled"`
	AutoComplete  *bool `json:"auto_complete,omitempty" doc:"Mark items purchased when a price is entered"`
}

// UpdateSettingsInput wraps the settings update request for Huma.
type UpdateSettingsInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateSettingsRequest
}

// ChangePasswordRequest is the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password,omitempty" doc:"Current password"`
	NewPassword     string `json:"new_password,omitempty" doc:"New password (min 8 chars)"`
}

// ChangePasswordInput wraps the password change request for Huma.
type ChangePasswordInput struct {
	Authorization string `header:"Authorization"`
	Body          ChangePasswordRequest
}

// SessionInfoResponse describes one active session.
type SessionInfoResponse struct {
	ID         string    `json:"id" doc:"Session ID"`
	DeviceName string    `json:"device_name" doc:"Human-readable device description"`
	Platform   string    `json:"platform,omitempty" doc:"Platform (iOS, Android, Web)"`
	IPAddress  string    `json:"ip_address,omitempty" doc:"Last known client IP"`
	CreatedAt  time.Time `json:"created_at" doc:"When the session was opened"`
	LastSeenAt time.Time `json:"last_seen_at" doc:"Last activity"`
	ExpiresAt  time.Time `json:"expires_at" doc:"Refresh token expiry"`
}

// ListSessionsResponse contains a user's active sessions.
type ListSessionsResponse struct {
	Sessions []SessionInfoResponse `json:"sessions" doc:"Active sessions"`
}

// ListSessionsInput contains parameters for listing sessions.
type ListSessionsInput struct {
	Authorization string `header:"Authorization"`
}

// ListSessionsOutput wraps the sessions response for Huma.
type ListSessionsOutput struct {
	Body ListSessionsResponse
}

// === Handlers ===

func (s *Server) handleGetProfile(ctx context.Context, input *ProfileInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Profile.UpdateProfile(ctx, userID, service.UpdateProfileRequest{
		DisplayName: input.Body.DisplayName,
		Phone:       input.Body.Phone,
	})
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleGetSettings(ctx context.Context, input *GetSettingsInput) (*SettingsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	settings, err := s.services.Profile.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SettingsOutput{Body: mapSettingsResponse(settings)}, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	settings, err := s.services.Profile.UpdateSettings(ctx, userID, service.UpdateSettingsRequest{
		Notifications: input.Body.Notifications,
		DarkMode:      input.Body.DarkMode,
		AutoComplete:  input.Body.AutoComplete,
	})
	if err != nil {
		return nil, err
	}

	return &SettingsOutput{Body: mapSettingsResponse(settings)}, nil
}

func (s *Server) handleChangePassword(ctx context.Context, input *ChangePasswordInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	err = s.services.Profile.ChangePassword(ctx, userID, service.ChangePasswordRequest{
		CurrentPassword: input.Body.CurrentPassword,
		NewPassword:     input.Body.NewPassword,
	})
	if err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Password changed"}}, nil
}

func (s *Server) handleListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	sessions, err := s.services.Session.ListUserSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]SessionInfoResponse, len(sessions))
	for i, sess := range sessions {
		resp[i] = SessionInfoResponse{
			ID:         sess.ID,
			DeviceName: sess.DisplayName(),
			Platform:   sess.Platform,
			IPAddress:  sess.IPAddress,
			CreatedAt:  sess.CreatedAt,
			LastSeenAt: sess.LastSeenAt,
			ExpiresAt:  sess.ExpiresAt,
		}
	}

	return &ListSessionsOutput{Body: ListSessionsResponse{Sessions: resp}}, nil
}

// === Helpers ===

func mapSettingsResponse(settings *domain.UserSettings) SettingsResponse {
	return SettingsResponse{
		Notifications: settings.Notifications,
		DarkMode:      settings.DarkMode,
		AutoComplete:  settings.AutoComplete,
		UpdatedAt:     settings.UpdatedAt,
	}
}

func mapUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Phone:       user.Phone,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}
