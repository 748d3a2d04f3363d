// Package session stores authenticated browser sessions.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/healthassist-server/internal/domain"
)

// New creates a session for user that expires ttl from now.
func New(user *domain.User, ttl time.Duration, now time.Time) *domain.Session {
	return &domain.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		UserName:  user.Name,
		CreatedAt: now.UTC(),
		ExpiresAt: now.UTC().Add(ttl),
	}
}
