package service

import (
	"context"
	"fmt"
	"time"

	"github.com/healthassist-server/internal/domain"
)

// EmergencyService raises emergency alerts for the logged-in user.
type EmergencyService struct {
	users    domain.UserRepository
	notifier domain.Notifier
	now      func() time.Time
}

// NewEmergencyService creates a new emergency service
func NewEmergencyService(users domain.UserRepository, notifier domain.Notifier) *EmergencyService {
	return &EmergencyService{
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

// SendAlert builds an alert from the user's profile and hands it to the notifier.
func (s *EmergencyService) SendAlert(ctx context.Context, userID string) (*domain.EmergencyAlert, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user for alert: %w", err)
	}

	alert := &domain.EmergencyAlert{
		UserID:           user.ID,
		Name:             user.Name,
		Phone:            user.Phone,
		EmergencyContact: user.EmergencyContact,
		RaisedAt:         s.now().UTC(),
	}
	if err := s.notifier.Notify(ctx, alert); err != nil {
		return nil, fmt.Errorf("sending emergency alert: %w", err)
	}
	return alert, nil
}
