// Package notify dispatches emergency alerts.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/healthassist-server/internal/domain"
)

var (
	_ domain.Notifier = (*LogNotifier)(nil)
	_ domain.Notifier = (*BreakerNotifier)(nil)
)

// LogNotifier records alerts in the log. It stands in for a real dispatch channel.
type LogNotifier struct {
	log *logrus.Logger
}

// NewLogNotifier creates a notifier that logs alerts at warn level.
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: logger}
}

// Notify implements domain.Notifier.
func (n *LogNotifier) Notify(ctx context.Context, alert *domain.EmergencyAlert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.WithFields(logrus.Fields{
		"user_id":           alert.UserID,
		"name":              alert.Name,
		"phone":             alert.Phone,
		"emergency_contact": alert.EmergencyContact,
		"raised_at":         alert.RaisedAt.Format(time.RFC3339),
	}).Warn("Emergency alert raised")
	return nil
}

// BreakerNotifier guards another notifier with a circuit breaker. While the
// breaker is open, Notify fails fast with domain.ErrNotifierUnavailable.
type BreakerNotifier struct {
	next    domain.Notifier
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerNotifier wraps next using the breaker settings from cfg.
func NewBreakerNotifier(next domain.Notifier, cfg domain.NotifierConfig, logger *logrus.Logger) *BreakerNotifier {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "emergency-notifier",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &BreakerNotifier{next: next, breaker: breaker}
}

// Notify implements domain.Notifier.
func (b *BreakerNotifier) Notify(ctx context.Context, alert *domain.EmergencyAlert) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.next.Notify(ctx, alert)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", domain.ErrNotifierUnavailable, err)
	}
	return err
}

// State reports the breaker state, for health output.
func (b *BreakerNotifier) State() string {
	return b.breaker.State().String()
}
