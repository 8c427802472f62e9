package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
)

// NormalizeQualityScoreJSON
// - Renames known synonyms (score -> qualityScore, rating -> qualityRating)
// - Coerces a numeric string or float score to an integer clamped to 0..100
// - Canonicalizes the rating casing
// - Removes unknown keys
func NormalizeQualityScoreJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	changed := make([]string, 0, 4)
	rename := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			changed = append(changed, from+"->"+to)
		}
	}
	rename("score", "qualityScore")
	rename("quality_score", "qualityScore")
	rename("rating", "qualityRating")
	rename("quality_rating", "qualityRating")

	switch t := m["qualityScore"].(type) {
	case float64:
		if c := clampScore(t); c != t {
			m["qualityScore"] = c
			changed = append(changed, "qualityScore")
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			m["qualityScore"] = clampScore(f)
			changed = append(changed, "qualityScore")
		}
	}

	if s, ok := m["qualityRating"].(string); ok {
		if r, known := constants.CanonicalRating(s); known && string(r) != s {
			m["qualityRating"] = string(r)
			changed = append(changed, "qualityRating")
		}
	}

	for k := range m {
		switch k {
		case "qualityScore", "qualityRating", "feedback":
		default:
			delete(m, k)
			changed = append(changed, "-"+k)
		}
	}

	if len(changed) > 0 {
		logger.Debug("llm.sanitize.quality", "changes", changed)
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return b, changed, nil
}

func clampScore(f float64) float64 {
	return math.Max(0, math.Min(100, math.Round(f)))
}

// DecodeQualityScore runs sanitize, schema validation and decoding on a raw
// scoring response.
func DecodeQualityScore(raw []byte, logger *slog.Logger) (QualityScore, error) {
	clean, _, err := NormalizeQualityScoreJSON(raw, logger)
	if err != nil {
		return QualityScore{}, err
	}
	if err := ValidateJSONAgainstSchema(BuildQualityScoreJSONSchema(), clean); err != nil {
		return QualityScore{}, err
	}
	var qs QualityScore
	if err := json.Unmarshal(clean, &qs); err != nil {
		return QualityScore{}, fmt.Errorf("decode quality score: %w", err)
	}
	return qs, nil
}
