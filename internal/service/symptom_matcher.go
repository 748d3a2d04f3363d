package service

import (
	"sort"
	"strings"

	"github.com/healthassist-server/internal/domain"
)

// CheckSymptoms ranks the knowledge-base conditions against the reported
// symptom labels. Labels are compared case-insensitively; each indicator
// symptom counts at most once no matter how often it is reported. Conditions
// below domain.MatchThreshold are dropped, the rest are ordered by matched
// count descending with ties kept in declaration order. When nothing
// qualifies the result is the single no-match sentinel.
func CheckSymptoms(reported []string) []domain.MatchResult {
	present := make(map[string]struct{}, len(reported))
	for _, s := range reported {
		present[normalizeSymptom(s)] = struct{}{}
	}

	var results []domain.MatchResult
	for _, c := range knowledgeBase {
		matched := 0
		for _, indicator := range c.IndicatorSymptoms {
			if _, ok := present[normalizeSymptom(indicator)]; ok {
				matched++
			}
		}
		if matched >= domain.MatchThreshold {
			results = append(results, domain.NewRankedMatch(c, matched))
		}
	}

	if len(results) == 0 {
		return []domain.MatchResult{domain.NoMatch()}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchedCount > results[j].MatchedCount
	})
	return results
}

func normalizeSymptom(s string) string {
	return strings.ToLower(s)
}
