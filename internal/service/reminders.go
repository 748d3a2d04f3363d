package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/healthassist-server/internal/domain"
)

// ReminderService manages the medicine reminder log.
type ReminderService struct {
	reminders domain.ReminderRepository
	logger    *logrus.Logger
	now       func() time.Time
}

// NewReminderService creates a new reminder service
func NewReminderService(reminders domain.ReminderRepository, logger *logrus.Logger) *ReminderService {
	return &ReminderService{
		reminders: reminders,
		logger:    logger,
		now:       time.Now,
	}
}

// AddReminder validates and stores a reminder for userID.
func (s *ReminderService) AddReminder(ctx context.Context, userID string, in domain.ReminderInput) (*domain.MedicineReminder, error) {
	reminder := &domain.MedicineReminder{
		ID:           uuid.New().String(),
		UserID:       userID,
		MedicineName: strings.TrimSpace(in.MedicineName),
		Dosage:       strings.TrimSpace(in.Dosage),
		Time:         strings.TrimSpace(in.Time),
		Description:  strings.TrimSpace(in.Description),
		CreatedAt:    s.now().UTC(),
	}
	if err := validateReminder(reminder); err != nil {
		return nil, err
	}

	if err := s.reminders.CreateReminder(ctx, reminder); err != nil {
		return nil, fmt.Errorf("creating reminder: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"reminder_id": reminder.ID,
		"time":        reminder.Time,
	}).Info("Medicine reminder added")

	return reminder, nil
}

// ListReminders returns the user's reminders, oldest first.
func (s *ReminderService) ListReminders(ctx context.Context, userID string) ([]*domain.MedicineReminder, error) {
	reminders, err := s.reminders.ListReminders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}
	return reminders, nil
}

// DeleteReminder removes one of the user's reminders.
func (s *ReminderService) DeleteReminder(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("reminder %q: %w", id, domain.ErrNotFound)
	}
	if err := s.reminders.DeleteReminder(ctx, userID, id); err != nil {
		return fmt.Errorf("deleting reminder: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"reminder_id": id,
	}).Info("Medicine reminder deleted")
	return nil
}

func validateReminder(r *domain.MedicineReminder) error {
	if r.MedicineName == "" {
		return domain.NewValidationError("medicineName", "Medicine name is required", nil)
	}
	if r.Dosage == "" {
		return domain.NewValidationError("dosage", "Dosage is required", nil)
	}
	if r.Time == "" {
		return domain.NewValidationError("time", "Time is required", nil)
	}
	if _, err := time.Parse("15:04", r.Time); err != nil {
		return domain.NewValidationError("time", "Time must be HH:MM", r.Time)
	}
	return nil
}
