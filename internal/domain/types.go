// Package domain contains the core entities of the HealthAssist+ server: accounts,
// medicine reminders, symptom checks and the rule-based symptom knowledge base types.
package domain

import (
	"errors"
	"fmt"
)

// MatchKind tags a MatchResult as either a ranked condition match or the
// no-match sentinel.
type MatchKind string

const (
	MatchRanked MatchKind = "ranked"
	MatchNone   MatchKind = "no_match"
)

// MatchThreshold is the minimum number of distinct indicator symptoms a
// condition needs before it is reported.
const MatchThreshold = 2

// NoMatchCondition is the display name of the sentinel result.
const NoMatchCondition = "No Specific Match"

// NoMatchAdvice is the advice carried by the sentinel result.
const NoMatchAdvice = "Your symptoms don't match any common conditions. Please consult a doctor for proper diagnosis."

// Sentinel errors shared across storage, services and transport.
var (
	ErrNotFound            = errors.New("not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrSessionNotFound     = errors.New("session not found")
	ErrNotifierUnavailable = errors.New("emergency notifier unavailable")
)

// IsValid reports whether k is a known match kind.
func (k MatchKind) IsValid() bool {
	switch k {
	case MatchRanked, MatchNone:
		return true
	default:
		return false
	}
}

// String returns the string representation of the match kind
func (k MatchKind) String() string {
	return string(k)
}

// ParseMatchKind converts a stored string back into a MatchKind.
func ParseMatchKind(s string) (MatchKind, error) {
	k := MatchKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("unknown match kind %q", s)
	}
	return k, nil
}
