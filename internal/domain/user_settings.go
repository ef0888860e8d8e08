package domain

import "time"

// UserSettings contains per-user app preferences, created with defaults
// at registration.
type UserSettings struct {
	UserID string `json:"user_id"`

	Notifications bool `json:"notifications"`
	DarkMode      bool `json:"dark_mode"`

	// AutoComplete marks items purchased as soon as a price is entered,
	// saving a tap in the store.
	AutoComplete bool `json:"auto_complete"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the settings' modification timestamp.
func (s *UserSettings) Touch() {
	s.UpdatedAt = time.Now()
}

// NewUserSettings creates settings with sensible defaults.
func NewUserSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:        userID,
		Notifications: true,
		DarkMode:      false,
		AutoComplete:  false,
		UpdatedAt:     time.Now(),
	}
}
