package domain

import "time"

// User represents an authenticated account in the system.
type User struct {
	Syncable
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	DisplayName  string    `json:"display_name"`
	Phone        string    `json:"phone,omitempty"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// Name returns the best available name to display for the user.
// Prefers DisplayName, falls back to email.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// Session represents an active user session with refresh token.
// Each device gets its own session - you can see what's connected.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash,omitempty"` // Stored hashed, filter from API responses
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`

	// Device information - structured data from client
	DeviceType      string `json:"device_type"`            // mobile, tablet, web
	Platform        string `json:"platform"`               // iOS, Android, Web
	PlatformVersion string `json:"platform_version"`       // 17.2, 14.0, etc.
	ClientName      string `json:"client_name"`            // Cartly Mobile, Cartly Web
	ClientVersion   string `json:"client_version"`         // 1.0.0
	DeviceName      string `json:"device_name,omitempty"`  // User-set device name
	DeviceModel     string `json:"device_model,omitempty"` // iPhone 15 Pro, Pixel 8
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// DisplayName returns a human-readable description of the device.
func (s *Session) DisplayName() string {
	if s.DeviceName != "" {
		return s.DeviceName
	}

	if s.DeviceModel != "" {
		if s.PlatformVersion != "" {
			return s.DeviceModel + " - " + s.Platform + " " + s.PlatformVersion
		}
		return s.DeviceModel
	}

	if s.Platform != "" {
		if s.PlatformVersion != "" {
			return s.Platform + " " + s.PlatformVersion
		}
		return s.Platform
	}

	if s.ClientVersion != "" {
		return s.ClientName + " " + s.ClientVersion
	}

	if s.ClientName != "" {
		return s.ClientName
	}

	return "Unknown Device"
}
