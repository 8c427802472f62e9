package constants

import "strings"

// QualityRating is the rating attached to a scored product image.
type QualityRating string

// Stable values (persisted and shown as-is).
const (
	RatingPoor      QualityRating = "Poor"
	RatingFair      QualityRating = "Fair"
	RatingGood      QualityRating = "Good"
	RatingExcellent QualityRating = "Excellent"
	RatingError     QualityRating = "Error" // scoring call failed
)

var allRatings = []QualityRating{RatingPoor, RatingFair, RatingGood, RatingExcellent}

// CanonicalRating maps free-form model output onto a known rating.
// Unknown values report false and fall back to RatingFair.
func CanonicalRating(input string) (QualityRating, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, r := range allRatings {
		if normalized == strings.ToLower(string(r)) {
			return r, true
		}
	}
	return RatingFair, false
}

// ScoringFailedFeedback is written into a slot whose scoring call failed.
const ScoringFailedFeedback = "Analysis failed to complete."
