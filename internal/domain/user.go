package domain

import (
	"time"
)

// User is a registered account.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Phone            string    `json:"phone,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name             string `form:"name" json:"name"`
	Email            string `form:"email" json:"email"`
	Password         string `form:"password" json:"password"`
	ConfirmPassword  string `form:"confirmPassword" json:"confirm_password"`
	Phone            string `form:"phone" json:"phone"`
	EmergencyContact string `form:"emergencyContact" json:"emergency_contact"`
}

// Session is an authenticated browser session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// EmergencyAlert is what the emergency notifier receives.
type EmergencyAlert struct {
	UserID           string    `json:"user_id"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	EmergencyContact string    `json:"emergency_contact"`
	RaisedAt         time.Time `json:"raised_at"`
}
