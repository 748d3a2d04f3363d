package domain

import (
	"time"
)

// Condition is one entry of the shipped symptom knowledge base.
type Condition struct {
	Name              string   `json:"name"`
	IndicatorSymptoms []string `json:"indicator_symptoms"`
	Advice            string   `json:"advice"`
}

// MatchResult is a single entry of a symptom check outcome. Kind selects the
// variant: ranked matches carry MatchedCount, the no-match sentinel does not.
type MatchResult struct {
	Kind          MatchKind `json:"kind"`
	ConditionName string    `json:"condition"`
	Advice        string    `json:"advice"`
	MatchedCount  int       `json:"matched_count,omitempty"`
}

// NewRankedMatch builds a ranked result for a condition.
func NewRankedMatch(c Condition, matched int) MatchResult {
	return MatchResult{
		Kind:          MatchRanked,
		ConditionName: c.Name,
		Advice:        c.Advice,
		MatchedCount:  matched,
	}
}

// NoMatch returns the sentinel result.
func NoMatch() MatchResult {
	return MatchResult{
		Kind:          MatchNone,
		ConditionName: NoMatchCondition,
		Advice:        NoMatchAdvice,
	}
}

// IsSentinel reports whether r is the no-match sentinel.
func (r MatchResult) IsSentinel() bool {
	return r.Kind == MatchNone
}

// Count returns the matched indicator count and whether the result carries one.
func (r MatchResult) Count() (int, bool) {
	if r.Kind != MatchRanked {
		return 0, false
	}
	return r.MatchedCount, true
}

// SymptomCheck is the persisted record of one symptom check: what the user
// reported and which conditions were returned.
type SymptomCheck struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Symptoms  []string  `json:"symptoms"`
	Results   []string  `json:"results"`
	CheckedAt time.Time `json:"checked_at"`
}

// ConditionNames extracts the condition names of a result sequence, in order.
func ConditionNames(results []MatchResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.ConditionName)
	}
	return names
}
