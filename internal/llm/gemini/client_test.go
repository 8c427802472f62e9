package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
	"github.com/joseph-ayodele/sourcing-assistant/internal/llm"
)

func encoded(data string, mime string) entity.EncodedImage {
	return entity.EncodedImage{Base64: base64.StdEncoding.EncodeToString([]byte(data)), MIMEType: mime}
}

func TestAnalysisParts_ImagesThenText(t *testing.T) {
	parts, err := analysisParts(llm.AnalysisRequest{
		Images:       []entity.EncodedImage{encoded("primary", "image/png"), encoded("second", "image/jpeg")},
		UserDetails:  "steel water bottle",
		PriorityHint: constants.PriorityLow,
	})
	require.NoError(t, err)
	require.Len(t, parts, 3)

	first, ok := parts[0].(genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "image/png", first.MIMEType)
	assert.Equal(t, []byte("primary"), first.Data)

	text, ok := parts[2].(genai.Text)
	require.True(t, ok)
	assert.Contains(t, string(text), `"steel water bottle"`)
}

func TestAnalysisParts_Rejects(t *testing.T) {
	_, err := analysisParts(llm.AnalysisRequest{})
	assert.Error(t, err)

	_, err = analysisParts(llm.AnalysisRequest{Images: []entity.EncodedImage{{Base64: "%%%", MIMEType: "image/png"}}})
	assert.Error(t, err)
}

func TestFirstText(t *testing.T) {
	assert.Equal(t, "", firstText(nil))

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: nil},
		{Content: &genai.Content{Parts: []genai.Part{genai.Text("```json\n"), genai.Blob{}, genai.Text("{}\n```")}}},
		{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
	}}
	assert.Equal(t, "```json\n{}\n```", firstText(resp))
}

func TestQualityResponseSchema(t *testing.T) {
	s := qualityResponseSchema()
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, genai.TypeInteger, s.Properties["qualityScore"].Type)
	assert.ElementsMatch(t, []string{"qualityScore", "qualityRating", "feedback"}, s.Required)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{}, nil)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, "gemini-2.5-flash", cfg.ScoringModel)

	cfg = Config{Model: "gemini-2.5-pro"}.withDefaults()
	assert.Equal(t, "gemini-2.5-pro", cfg.ScoringModel)
}
