package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cartlyapp/cartly-server/internal/auth"
	"github.com/cartlyapp/cartly-server/internal/domain"
	domainerrors "github.com/cartlyapp/cartly-server/internal/errors"
	"github.com/cartlyapp/cartly-server/internal/store"
)

// ProfileService manages the user's own account: profile fields, the
// settings document, and password changes.
type ProfileService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store *store.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		logger: logger,
	}
}

// UpdateProfileRequest contains profile edits. Nil fields are unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

// UpdateSettingsRequest contains settings edits. Nil fields are unchanged.
type UpdateSettingsRequest struct {
	Notifications *bool `json:"notifications,omitempty"`
	DarkMode      *bool `json:"dark_mode,omitempty"`
	AutoComplete  *bool `json:"auto_complete,omitempty"`
}

// ChangePasswordRequest carries a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=1024"`
}

// GetProfile returns the user's account record.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies partial edits to the user's profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	if req.DisplayName != nil && *req.DisplayName == "" {
		return nil, domainerrors.Validation("display_name is required")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	user.Touch()

	if err := s.store.Users.Update(ctx, userID, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// GetSettings returns the user's settings document. Users registered
// before a settings field existed fall back to defaults.
func (s *ProfileService) GetSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	settings, err := s.store.GetUserSettings(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrSettingsNotFound) {
			return domain.NewUserSettings(userID), nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings applies partial edits to the settings document.
func (s *ProfileService) UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (*domain.UserSettings, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Notifications != nil {
		settings.Notifications = *req.Notifications
	}
	if req.DarkMode != nil {
		settings.DarkMode = *req.DarkMode
	}
	if req.AutoComplete != nil {
		settings.AutoComplete = *req.AutoComplete
	}
	settings.Touch()

	if err := s.store.SaveUserSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	return settings, nil
}

// ChangePassword verifies the current password and replaces the hash.
// All other sessions stay valid; clients that want a global logout
// delete the user's sessions explicitly.
func (s *ProfileService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.CurrentPassword)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return domainerrors.InvalidCredentials("current password is incorrect")
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = newHash
	user.Touch()
	if err := s.store.Users.Update(ctx, userID, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Password changed", "user_id", userID)
	}

	return nil
}
