// Package gemini implements the analysis and image-scoring collaborators on
// the Gemini API.
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
	"github.com/joseph-ayodele/sourcing-assistant/internal/llm"
)

// Client satisfies both llm.Analyzer and llm.ImageScorer.
type Client struct {
	cfg    Config
	log    *slog.Logger
	client *genai.Client
}

var (
	_ llm.Analyzer    = (*Client)(nil)
	_ llm.ImageScorer = (*Client)(nil)
)

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" {
		return nil, common.NewAppError(common.CodeConfig, "gemini api key is required", common.ErrInvalidInput)
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, common.NewNetworkError("create gemini client", err)
	}
	return &Client{cfg: cfg.withDefaults(), log: logger, client: cl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Analyze sends the images and user text and returns the raw model text.
func (c *Client) Analyze(ctx context.Context, req llm.AnalysisRequest) (string, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	parts, err := analysisParts(req)
	if err != nil {
		return "", common.NewValidationError(err.Error())
	}

	m := c.client.GenerativeModel(c.cfg.Model)
	m.GenerationConfig = genai.GenerationConfig{Temperature: ptrFloat32(c.cfg.Temperature)}
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(llm.AnalysisSystemPrompt)}}

	c.log.Info("llm.analysis.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"images", len(req.Images),
		"priority", req.PriorityHint,
		"has_country", req.ExportCountryHint != "",
	)

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		c.log.Error("llm.analysis.failed", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", common.NewNetworkError("An error occurred while fetching the estimate. Please try again.", err)
	}

	text := firstText(resp)
	c.log.Info("llm.analysis.ok", "req_id", rid, "chars", len(text), "elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}

// ScoreImage grades one photo with a JSON response schema.
func (c *Client) ScoreImage(ctx context.Context, img entity.EncodedImage) (llm.QualityScore, error) {
	start := time.Now()
	log := common.LoggerWith(ctx, c.log)

	blob, err := imageBlob(img)
	if err != nil {
		return llm.QualityScore{}, common.NewScoringError("decode image", err)
	}

	m := c.client.GenerativeModel(c.cfg.ScoringModel)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   qualityResponseSchema(),
	}
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(llm.ScoringSystemPrompt)}}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	resp, err := m.GenerateContent(ctx, blob, genai.Text(llm.ScoringPrompt))
	if err != nil {
		log.Warn("llm.scoring.failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return llm.QualityScore{}, common.NewScoringError("scoring call failed", err)
	}

	qs, err := llm.DecodeQualityScore([]byte(strings.TrimSpace(firstText(resp))), log)
	if err != nil {
		log.Warn("llm.scoring.decode_failed", "error", err)
		return llm.QualityScore{}, common.NewScoringError("scoring response unusable", err)
	}
	log.Debug("llm.scoring.ok", "score", qs.QualityScore, "rating", qs.QualityRating, "elapsed_ms", time.Since(start).Milliseconds())
	return qs, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, c.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// analysisParts puts every image first, then the user text.
func analysisParts(req llm.AnalysisRequest) ([]genai.Part, error) {
	if len(req.Images) == 0 {
		return nil, errors.New("at least one image is required")
	}
	parts := make([]genai.Part, 0, len(req.Images)+1)
	for i, img := range req.Images {
		blob, err := imageBlob(img)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		parts = append(parts, blob)
	}
	return append(parts, genai.Text(llm.BuildAnalysisUserText(req))), nil
}

func imageBlob(img entity.EncodedImage) (genai.Blob, error) {
	data, err := base64.StdEncoding.DecodeString(img.Base64)
	if err != nil {
		return genai.Blob{}, err
	}
	return genai.Blob{MIMEType: img.MIMEType, Data: data}, nil
}

func qualityResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"qualityScore":  {Type: genai.TypeInteger, Description: "A score from 0 to 100."},
			"qualityRating": {Type: genai.TypeString, Description: "One of: Poor, Fair, Good, Excellent."},
			"feedback":      {Type: genai.TypeString, Description: "Actionable feedback for improvement."},
		},
		Required: []string{"qualityScore", "qualityRating", "feedback"},
	}
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}

func ptrFloat32(f float32) *float32 { return &f }
