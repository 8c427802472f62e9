package calc

import "strings"

// SustainabilityScore grades a factory's free-text sustainability note.
type SustainabilityScore string

const (
	SustainabilityExcellent SustainabilityScore = "Excellent"
	SustainabilityGood      SustainabilityScore = "Good"
	SustainabilityFair      SustainabilityScore = "Fair"
	SustainabilityNA        SustainabilityScore = "N/A"
)

var (
	strongCertifications = []string{"eco-certified", "gots", "iso 14001", "b corp"}
	secondaryKeywords    = []string{"recycled", "iso 9001", "oeko-tex"}
	qualifyingWords      = []string{"offers", "options"}
)

// ClassifySustainability applies the keyword tiers in order; the first match wins.
func ClassifySustainability(note string) SustainabilityScore {
	if note == "" {
		return SustainabilityNA
	}
	lower := strings.ToLower(note)
	switch {
	case containsAny(lower, strongCertifications):
		return SustainabilityExcellent
	case containsAny(lower, secondaryKeywords):
		return SustainabilityGood
	case containsAny(lower, qualifyingWords):
		return SustainabilityFair
	case len(lower) > 5:
		return SustainabilityFair
	}
	return SustainabilityNA
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
