package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/healthassist-server/internal/domain"
)

// ReminderRepository handles medicine reminder persistence
type ReminderRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *pgxpool.Pool, logger *logrus.Logger) *ReminderRepository {
	return &ReminderRepository{
		db:  db,
		log: logger,
	}
}

// CreateReminder inserts a new reminder
func (r *ReminderRepository) CreateReminder(ctx context.Context, reminder *domain.MedicineReminder) error {
	query := `
		INSERT INTO medicine_reminders (
			id, user_id, medicine_name, dosage, time, description, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)`

	_, err := r.db.Exec(ctx, query,
		reminder.ID,
		reminder.UserID,
		reminder.MedicineName,
		reminder.Dosage,
		reminder.Time,
		reminder.Description,
		reminder.CreatedAt,
	)

	if err != nil {
		r.log.WithFields(logrus.Fields{
			"reminder_id": reminder.ID,
			"user_id":     reminder.UserID,
			"error":       err,
		}).Error("Failed to create reminder")
		return fmt.Errorf("creating reminder: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"reminder_id": reminder.ID,
		"user_id":     reminder.UserID,
	}).Debug("Reminder created successfully")

	return nil
}

// ListReminders returns the user's reminders, oldest first
func (r *ReminderRepository) ListReminders(ctx context.Context, userID string) ([]*domain.MedicineReminder, error) {
	query := `
		SELECT id, user_id, medicine_name, dosage, time, description, created_at
		FROM medicine_reminders
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err,
		}).Error("Failed to list reminders")
		return nil, fmt.Errorf("listing reminders: %w", err)
	}
	defer rows.Close()

	reminders := []*domain.MedicineReminder{}
	for rows.Next() {
		var reminder domain.MedicineReminder
		err := rows.Scan(
			&reminder.ID,
			&reminder.UserID,
			&reminder.MedicineName,
			&reminder.Dosage,
			&reminder.Time,
			&reminder.Description,
			&reminder.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}
		reminders = append(reminders, &reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reminders: %w", err)
	}

	return reminders, nil
}

// DeleteReminder removes a reminder owned by userID. Reminders owned by
// someone else report domain.ErrNotFound.
func (r *ReminderRepository) DeleteReminder(ctx context.Context, userID, id string) error {
	query := `DELETE FROM medicine_reminders WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"reminder_id": id,
			"user_id":     userID,
			"error":       err,
		}).Error("Failed to delete reminder")
		return fmt.Errorf("deleting reminder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reminder not found: %w", domain.ErrNotFound)
	}

	r.log.WithFields(logrus.Fields{
		"reminder_id": id,
		"user_id":     userID,
	}).Debug("Reminder deleted successfully")

	return nil
}
