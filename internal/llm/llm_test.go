package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
)

func TestDecodeQualityScore(t *testing.T) {
	qs, err := DecodeQualityScore([]byte(`{"qualityScore": 87, "qualityRating": "Excellent", "feedback": "Image is clear and well-lit."}`), nil)
	require.NoError(t, err)
	assert.Equal(t, 87, qs.QualityScore)
	assert.Equal(t, "Excellent", qs.QualityRating)

	res := qs.ToResult()
	require.NotNil(t, res.Score)
	assert.Equal(t, 87, *res.Score)
	assert.Equal(t, constants.RatingExcellent, res.Rating)
	assert.False(t, res.Pending)
	assert.True(t, res.Scored())
}

func TestDecodeQualityScore_Sanitizes(t *testing.T) {
	qs, err := DecodeQualityScore([]byte(`{"score": "104.4", "rating": "good", "feedback": "Use a plain background.", "notes": "x"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, 100, qs.QualityScore)
	assert.Equal(t, "Good", qs.QualityRating)
	assert.Equal(t, "Use a plain background.", qs.Feedback)
}

func TestDecodeQualityScore_RejectsUnusable(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":       `qualityScore: 80`,
		"missing score":  `{"qualityRating": "Good", "feedback": "ok"}`,
		"unknown rating": `{"qualityScore": 50, "qualityRating": "Meh", "feedback": "ok"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeQualityScore([]byte(raw), nil)
			assert.Error(t, err)
		})
	}
}

func TestBuildAnalysisUserText(t *testing.T) {
	text := BuildAnalysisUserText(AnalysisRequest{
		UserDetails:       "  bamboo toothbrush  ",
		ExportCountryHint: "Vietnam",
		PriorityHint:      constants.PriorityHigh,
	})
	assert.Equal(t, "User-provided details: \"bamboo toothbrush\"\n\n"+
		"[IMPORTANT] The user has specified a preferred export country: \"Vietnam\". "+
		"All factory bids, logistics, and duties must be specific to this country.\n\n"+
		"[PRIORITY] The user has set the priority for this analysis to: \"High\". Adapt your analysis accordingly.", text)
}

func TestBuildAnalysisUserText_Defaults(t *testing.T) {
	text := BuildAnalysisUserText(AnalysisRequest{})

	assert.Contains(t, text, `User-provided details: "None. Analyze the image only."`)
	assert.NotContains(t, text, "[IMPORTANT]")
	assert.Contains(t, text, `to: "Medium"`)
}

func TestAnalysisSystemPrompt_ExampleParses(t *testing.T) {
	assert.Contains(t, AnalysisSystemPrompt, "```json\n{")
	assert.NoError(t, ValidateJSONAgainstSchema(map[string]any{"type": "object"}, []byte(analysisExample)))
}
