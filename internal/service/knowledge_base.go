package service

import (
	"sort"

	"github.com/healthassist-server/internal/domain"
)

// knowledgeBase is the shipped condition table. Declaration order is the
// tie-break order for equally scored conditions, so emergency entries come
// first. The slice is never mutated.
var knowledgeBase = []domain.Condition{
	{
		Name:              "🚨 POSSIBLE EMERGENCY",
		IndicatorSymptoms: []string{"chest pain", "difficulty breathing", "severe headache"},
		Advice:            "⚠️ SEEK IMMEDIATE MEDICAL ATTENTION. Call emergency services immediately!",
	},
	{
		Name:              "🚨 POSSIBLE EMERGENCY",
		IndicatorSymptoms: []string{"loss of consciousness", "severe bleeding", "difficulty breathing"},
		Advice:            "⚠️ CALL EMERGENCY SERVICES (108) IMMEDIATELY!",
	},
	{
		Name:              "Common Cold",
		IndicatorSymptoms: []string{"sneezing", "runny nose", "cough"},
		Advice:            "Drink warm fluids, get rest. Consult a doctor if symptoms persist for more than a week.",
	},
	{
		Name:              "Flu (Influenza)",
		IndicatorSymptoms: []string{"fever", "cough", "body pain", "fatigue"},
		Advice:            "Rest well, stay hydrated. Seek medical attention if fever is very high or you have difficulty breathing.",
	},
	{
		Name:              "Food Poisoning",
		IndicatorSymptoms: []string{"vomiting", "stomach pain", "diarrhea", "nausea"},
		Advice:            "Stay hydrated with electrolyte solutions. Seek medical help immediately if severe or prolonged.",
	},
	{
		Name:              "Migraine/Headache",
		IndicatorSymptoms: []string{"headache", "dizziness", "nausea"},
		Advice:            "Rest in a quiet, dark room. Apply cold compress. Consult doctor if frequent.",
	},
	{
		Name:              "Allergy",
		IndicatorSymptoms: []string{"itching", "sneezing", "runny nose", "watery eyes"},
		Advice:            "Avoid allergens. Take antihistamine if available. Consult doctor if severe.",
	},
}

// Conditions returns a copy of the knowledge base in declaration order.
func Conditions() []domain.Condition {
	out := make([]domain.Condition, len(knowledgeBase))
	for i, c := range knowledgeBase {
		out[i] = domain.Condition{
			Name:              c.Name,
			IndicatorSymptoms: append([]string(nil), c.IndicatorSymptoms...),
			Advice:            c.Advice,
		}
	}
	return out
}

// Vocabulary returns every distinct indicator symptom, sorted.
func Vocabulary() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range knowledgeBase {
		for _, s := range c.IndicatorSymptoms {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
