package entity

import "github.com/joseph-ayodele/sourcing-assistant/constants"

// UploadedImage is a candidate product photo before validation.
type UploadedImage struct {
	Name      string
	MIMEType  string
	SizeBytes int64
	Data      []byte
	Path      string // empty when not read from disk
}

// EncodedImage is the wire form handed to the collaborators.
type EncodedImage struct {
	Base64   string `json:"base64"`
	MIMEType string `json:"mimeType"`
}

// QualityResult is the scoring state of one image.
type QualityResult struct {
	Score    *int                    `json:"score,omitempty"`
	Rating   constants.QualityRating `json:"rating,omitempty"`
	Feedback string                  `json:"feedback,omitempty"`
	Pending  bool                    `json:"pending"`
}

func PendingQuality() QualityResult {
	return QualityResult{Pending: true}
}

// FailedQuality is written when the scoring call fails.
func FailedQuality() QualityResult {
	return QualityResult{
		Rating:   constants.RatingError,
		Feedback: constants.ScoringFailedFeedback,
		Pending:  false,
	}
}

// Scored reports whether the result carries a usable numeric score.
func (q QualityResult) Scored() bool {
	return !q.Pending && q.Score != nil
}
