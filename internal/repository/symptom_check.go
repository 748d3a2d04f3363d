package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/healthassist-server/internal/domain"
)

// SymptomCheckRepository handles the symptom check log
type SymptomCheckRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewSymptomCheckRepository creates a new symptom check repository
func NewSymptomCheckRepository(db *pgxpool.Pool, logger *logrus.Logger) *SymptomCheckRepository {
	return &SymptomCheckRepository{
		db:  db,
		log: logger,
	}
}

// CreateSymptomCheck records a completed check
func (r *SymptomCheckRepository) CreateSymptomCheck(ctx context.Context, check *domain.SymptomCheck) error {
	symptomsJSON, err := json.Marshal(check.Symptoms)
	if err != nil {
		return fmt.Errorf("marshaling symptoms: %w", err)
	}
	resultsJSON, err := json.Marshal(check.Results)
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}

	query := `
		INSERT INTO symptom_checks (id, user_id, symptoms, results, checked_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.Exec(ctx, query, check.ID, check.UserID, symptomsJSON, resultsJSON, check.CheckedAt)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"check_id": check.ID,
			"user_id":  check.UserID,
			"error":    err,
		}).Error("Failed to record symptom check")
		return fmt.Errorf("creating symptom check: %w", err)
	}

	return nil
}

// ListSymptomChecks returns up to limit checks for userID, newest first
func (r *SymptomCheckRepository) ListSymptomChecks(ctx context.Context, userID string, limit int) ([]*domain.SymptomCheck, error) {
	query := `
		SELECT id, user_id, symptoms, results, checked_at
		FROM symptom_checks
		WHERE user_id = $1
		ORDER BY checked_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err,
		}).Error("Failed to list symptom checks")
		return nil, fmt.Errorf("listing symptom checks: %w", err)
	}
	defer rows.Close()

	checks := []*domain.SymptomCheck{}
	for rows.Next() {
		var check domain.SymptomCheck
		var symptomsJSON, resultsJSON []byte

		if err := rows.Scan(&check.ID, &check.UserID, &symptomsJSON, &resultsJSON, &check.CheckedAt); err != nil {
			return nil, fmt.Errorf("scanning symptom check: %w", err)
		}
		if err := json.Unmarshal(symptomsJSON, &check.Symptoms); err != nil {
			return nil, fmt.Errorf("unmarshaling symptoms: %w", err)
		}
		if err := json.Unmarshal(resultsJSON, &check.Results); err != nil {
			return nil, fmt.Errorf("unmarshaling results: %w", err)
		}
		checks = append(checks, &check)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating symptom checks: %w", err)
	}

	return checks, nil
}
