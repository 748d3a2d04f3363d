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

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// SymptomService runs symptom checks for a user and keeps the check log.
type SymptomService struct {
	checks domain.SymptomCheckRepository
	logger *logrus.Logger
	now    func() time.Time
}

// NewSymptomService creates a new symptom service
func NewSymptomService(checks domain.SymptomCheckRepository, logger *logrus.Logger) *SymptomService {
	return &SymptomService{
		checks: checks,
		logger: logger,
		now:    time.Now,
	}
}

// Check matches the reported symptoms and records the check for userID.
// Blank labels are dropped before matching.
func (s *SymptomService) Check(ctx context.Context, userID string, symptoms []string) ([]domain.MatchResult, *domain.SymptomCheck, error) {
	reported := make([]string, 0, len(symptoms))
	for _, sym := range symptoms {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}
		reported = append(reported, sym)
	}

	results := CheckSymptoms(reported)

	record := &domain.SymptomCheck{
		ID:        uuid.New().String(),
		UserID:    userID,
		Symptoms:  reported,
		Results:   domain.ConditionNames(results),
		CheckedAt: s.now().UTC(),
	}
	if err := s.checks.CreateSymptomCheck(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("recording symptom check: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":        userID,
		"check_id":       record.ID,
		"symptom_count":  len(reported),
		"result_count":   len(results),
		"top_condition":  results[0].ConditionName,
		"sentinel_match": results[0].IsSentinel(),
	}).Info("Symptom check completed")

	return results, record, nil
}

// History returns the user's most recent checks, newest first.
func (s *SymptomService) History(ctx context.Context, userID string, limit int) ([]*domain.SymptomCheck, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	checks, err := s.checks.ListSymptomChecks(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing symptom checks: %w", err)
	}
	return checks, nil
}
