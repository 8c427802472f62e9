package constants

import "strings"

// Priority is the user-chosen urgency passed to the analysis collaborator.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var allPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func PrioritiesAsStrings() []string {
	result := make([]string, len(allPriorities))
	for i, p := range allPriorities {
		result[i] = string(p)
	}
	return result
}

// CanonicalPriority accepts any casing plus a few synonyms. Empty input is Medium.
func CanonicalPriority(input string) (Priority, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return PriorityMedium, true
	}

	synonyms := map[string]Priority{
		"urgent": PriorityHigh,
		"asap":   PriorityHigh,
		"normal": PriorityMedium,
		"med":    PriorityMedium,
	}
	if p, ok := synonyms[normalized]; ok {
		return p, true
	}

	for _, p := range allPriorities {
		if normalized == strings.ToLower(string(p)) {
			return p, true
		}
	}
	return PriorityMedium, false
}
