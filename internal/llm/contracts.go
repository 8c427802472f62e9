package llm

import (
	"context"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

// AnalysisRequest is everything the analysis collaborator sees.
type AnalysisRequest struct {
	Images            []entity.EncodedImage
	UserDetails       string
	ExportCountryHint string
	PriorityHint      constants.Priority
}

// Analyzer returns raw model text that should contain one proposal JSON object,
// possibly fenced. The text is not validated here.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (string, error)
}

// QualityScore is the scoring collaborator's response.
type QualityScore struct {
	QualityScore  int    `json:"qualityScore"`
	QualityRating string `json:"qualityRating"`
	Feedback      string `json:"feedback"`
}

// ImageScorer grades one product photo.
type ImageScorer interface {
	ScoreImage(ctx context.Context, img entity.EncodedImage) (QualityScore, error)
}

// ToResult converts a scoring response into resolved slot state.
func (q QualityScore) ToResult() entity.QualityResult {
	score := q.QualityScore
	rating, _ := constants.CanonicalRating(q.QualityRating)
	return entity.QualityResult{
		Score:    &score,
		Rating:   rating,
		Feedback: q.Feedback,
		Pending:  false,
	}
}
