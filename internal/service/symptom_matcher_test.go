package service

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthassist-server/internal/domain"
)

func TestCheckSymptoms_Examples(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []domain.MatchResult
	}{
		{
			name:  "common cold and allergy tie keeps table order",
			input: []string{"sneezing", "runny nose"},
			expected: []domain.MatchResult{
				domain.NewRankedMatch(knowledgeBase[2], 2),
				domain.NewRankedMatch(knowledgeBase[6], 2),
			},
		},
		{
			name:  "chest pain with difficulty breathing",
			input: []string{"chest pain", "difficulty breathing"},
			expected: []domain.MatchResult{
				domain.NewRankedMatch(knowledgeBase[0], 2),
			},
		},
		{
			name:     "single symptom is below threshold",
			input:    []string{"itching"},
			expected: []domain.MatchResult{domain.NoMatch()},
		},
		{
			name:     "empty input",
			input:    []string{},
			expected: []domain.MatchResult{domain.NoMatch()},
		},
		{
			name:     "nil input",
			input:    nil,
			expected: []domain.MatchResult{domain.NoMatch()},
		},
		{
			name:     "unrecognized labels",
			input:    []string{"hiccups", "sore elbow", "blue tongue"},
			expected: []domain.MatchResult{domain.NoMatch()},
		},
		{
			name:  "higher count ranks first",
			input: []string{"cough", "sneezing", "runny nose", "itching", "watery eyes"},
			expected: []domain.MatchResult{
				domain.NewRankedMatch(knowledgeBase[6], 4),
				domain.NewRankedMatch(knowledgeBase[2], 3),
			},
		},
		{
			name:  "shared nausea indicator ties in table order",
			input: []string{"nausea", "vomiting", "headache"},
			expected: []domain.MatchResult{
				domain.NewRankedMatch(knowledgeBase[4], 2),
				domain.NewRankedMatch(knowledgeBase[5], 2),
			},
		},
		{
			name:  "emergency tied with ordinary conditions surfaces first",
			input: []string{"sneezing", "runny nose", "chest pain", "difficulty breathing"},
			expected: []domain.MatchResult{
				domain.NewRankedMatch(knowledgeBase[0], 2),
				domain.NewRankedMatch(knowledgeBase[2], 2),
				domain.NewRankedMatch(knowledgeBase[6], 2),
			},
		},
		{
			name:  "both emergency entries lead an equal-scored tie",
			input: []string{"difficulty breathing", "chest pain", "severe bleeding", "nausea", "vomiting"},
			expected: []domain.MatchResult{
				domain.NewRankedMatch(knowledgeBase[0], 2),
				domain.NewRankedMatch(knowledgeBase[1], 2),
				domain.NewRankedMatch(knowledgeBase[4], 2),
			},
		},
		{
			name:  "second emergency entry outranks the first",
			input: []string{"difficulty breathing", "chest pain", "severe bleeding", "loss of consciousness"},
			expected: []domain.MatchResult{
				domain.NewRankedMatch(knowledgeBase[1], 3),
				domain.NewRankedMatch(knowledgeBase[0], 2),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CheckSymptoms(tt.input))
		})
	}
}

func TestCheckSymptoms_EmergencyFirst(t *testing.T) {
	results := CheckSymptoms([]string{"chest pain", "difficulty breathing"})

	require.NotEmpty(t, results)
	assert.Equal(t, "🚨 POSSIBLE EMERGENCY", results[0].ConditionName)
	n, ok := results[0].Count()
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestCheckSymptoms_EmergencyWinsTies(t *testing.T) {
	results := CheckSymptoms([]string{"sneezing", "runny nose", "chest pain", "difficulty breathing"})

	require.Len(t, results, 3)
	assert.Equal(t, "🚨 POSSIBLE EMERGENCY", results[0].ConditionName)
	assert.Equal(t, "Common Cold", results[1].ConditionName)
	assert.Equal(t, "Allergy", results[2].ConditionName)
}

func TestCheckSymptoms_CaseInsensitive(t *testing.T) {
	upper := CheckSymptoms([]string{"FEVER", "Cough"})
	lower := CheckSymptoms([]string{"fever", "cough"})

	assert.Equal(t, lower, upper)
	require.Len(t, upper, 1)
	assert.Equal(t, "Flu (Influenza)", upper[0].ConditionName)
}

func TestCheckSymptoms_DuplicatesDoNotInflate(t *testing.T) {
	results := CheckSymptoms([]string{"fever", "fever", "cough"})

	require.Len(t, results, 1)
	assert.Equal(t, "Flu (Influenza)", results[0].ConditionName)
	assert.Equal(t, 2, results[0].MatchedCount)
}

func TestCheckSymptoms_Properties(t *testing.T) {
	vocab := Vocabulary()
	noise := []string{"hiccups", "FEVER", "Sneezing", "", "back ache"}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		var input []string
		for n := rng.Intn(8); n > 0; n-- {
			if rng.Intn(4) == 0 {
				input = append(input, noise[rng.Intn(len(noise))])
			} else {
				input = append(input, vocab[rng.Intn(len(vocab))])
			}
		}

		results := CheckSymptoms(input)
		require.NotEmpty(t, results, "input %v", input)

		if results[0].IsSentinel() {
			assert.Len(t, results, 1, "sentinel must be alone for %v", input)
			assert.Equal(t, domain.NoMatchCondition, results[0].ConditionName)
			continue
		}

		for j, r := range results {
			assert.False(t, r.IsSentinel(), "sentinel mixed into ranked results for %v", input)
			assert.GreaterOrEqual(t, r.MatchedCount, domain.MatchThreshold)
			if j > 0 {
				assert.GreaterOrEqual(t, results[j-1].MatchedCount, r.MatchedCount, "ordering for %v", input)
			}
		}

		assert.Equal(t, results, CheckSymptoms(input), "must be deterministic for %v", input)
	}
}

func TestCheckSymptoms_StableAmongEqualScores(t *testing.T) {
	results := CheckSymptoms(Vocabulary())

	position := make(map[string]int)
	for i, c := range knowledgeBase {
		position[c.Advice] = i
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].MatchedCount == results[i].MatchedCount {
			assert.Less(t, position[results[i-1].Advice], position[results[i].Advice])
		}
	}
	assert.Len(t, results, len(knowledgeBase))
}

func TestCheckSymptoms_Concurrent(t *testing.T) {
	want := CheckSymptoms([]string{"sneezing", "runny nose", "cough"})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, want, CheckSymptoms([]string{"sneezing", "runny nose", "cough"}))
			}
		}()
	}
	wg.Wait()
}

func TestConditions_ReturnsCopy(t *testing.T) {
	conditions := Conditions()
	require.Len(t, conditions, 7)

	conditions[0].Name = "Mutated"
	conditions[0].IndicatorSymptoms[0] = "mutated"

	assert.Equal(t, "🚨 POSSIBLE EMERGENCY", knowledgeBase[0].Name)
	assert.Equal(t, "chest pain", knowledgeBase[0].IndicatorSymptoms[0])
}

func TestVocabulary(t *testing.T) {
	vocab := Vocabulary()

	assert.IsIncreasing(t, vocab)
	assert.Contains(t, vocab, "difficulty breathing")
	assert.Contains(t, vocab, "watery eyes")
	assert.Len(t, vocab, 19)
}
