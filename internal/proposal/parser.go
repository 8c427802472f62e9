// Package proposal turns the free-form text returned by the analysis
// collaborator into a typed Proposal.
//
// Extraction is an ordered strategy chain. The first strategy that finds a
// candidate wins and there is no fallback after a JSON syntax error:
//
//  1. fenced: the inner text of a ```json fenced block.
//  2. braces: the substring from the first "{" to the last "}" inclusive.
//     Trailing prose that itself contains braces is captured too, so
//     `{"a":1} extra {not json}` yields the whole span and fails to decode.
//     This over-capture is a known limitation and is kept as-is.
//  3. none: no JSON found.
package proposal

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

// Strategy names the extraction step that produced a candidate.
type Strategy string

const (
	StrategyFenced Strategy = "fenced"
	StrategyBraces Strategy = "braces"
	StrategyNone   Strategy = "none"
)

// Messages surfaced to the user.
const (
	MsgNoJSON        = "no JSON found"
	MsgInvalidFormat = "Failed to parse the data from the AI. The format was invalid."
	MsgNoPriceTiers  = "proposal has no price tiers"
)

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Extraction is the candidate JSON text picked by the strategy chain.
type Extraction struct {
	Strategy  Strategy
	Candidate string
}

func (e Extraction) Found() bool { return e.Strategy != StrategyNone }

// Extract runs the strategy chain without decoding anything.
func Extract(text string) Extraction {
	if m := fencedJSON.FindStringSubmatch(text); m != nil && m[1] != "" {
		return Extraction{Strategy: StrategyFenced, Candidate: m[1]}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return Extraction{Strategy: StrategyBraces, Candidate: text[start : end+1]}
	}
	return Extraction{Strategy: StrategyNone}
}

// Result is a tagged parse outcome. Exactly one of Value or Err is meaningful.
type Result[T any] struct {
	Value    T
	Strategy Strategy
	Err      error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// Parse extracts and decodes text into T.
func Parse[T any](text string) Result[T] {
	ex := Extract(text)
	if !ex.Found() {
		return Result[T]{Strategy: StrategyNone, Err: common.NewParseError(MsgNoJSON, nil)}
	}

	var v T
	if err := json.Unmarshal([]byte(ex.Candidate), &v); err != nil {
		return Result[T]{Strategy: ex.Strategy, Err: common.NewParseError(MsgInvalidFormat, err)}
	}
	return Result[T]{Value: v, Strategy: ex.Strategy}
}

// ParseProposal decodes a Proposal and rejects one without price tiers.
func ParseProposal(text string) Result[entity.Proposal] {
	res := Parse[entity.Proposal](text)
	if !res.OK() {
		return res
	}
	if len(res.Value.DDPPriceTiers) == 0 {
		return Result[entity.Proposal]{Strategy: res.Strategy, Err: common.NewParseError(MsgNoPriceTiers, nil)}
	}
	return res
}
