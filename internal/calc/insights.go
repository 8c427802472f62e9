package calc

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

// ReferenceQuantity is the tier the headline price and cost breakdown refer to.
const ReferenceQuantity = 1000

// ReferenceTier returns the 1000-unit tier, or the first tier when there is none.
func ReferenceTier(p entity.Proposal) (entity.PriceTier, bool) {
	if t, ok := p.TierFor(ReferenceQuantity); ok {
		return t, true
	}
	if len(p.DDPPriceTiers) > 0 {
		return p.DDPPriceTiers[0], true
	}
	return entity.PriceTier{}, false
}

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

// InsightSnippet keeps the first two sentences of the demand insight.
func InsightSnippet(insight string) string {
	sentences := sentenceRe.FindAllString(insight, 2)
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}
	return strings.Join(sentences, " ")
}

// IsRecommendedBid marks the bid whose price was used as the breakdown's factory price.
func IsRecommendedBid(p entity.Proposal, bid entity.FactoryBid) bool {
	fp := p.DDPCostBreakdown.FactoryPrice
	return fp != nil && bid.Price.Float() == fp.Value()
}

// SourceURLs merges tariff, demand and compliance sources, dropping blanks and repeats.
func SourceURLs(p entity.Proposal) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, group := range [][]string{p.Sources.Tariff, p.Sources.Demand, p.Sources.Compliance} {
		for _, u := range group {
			if u == "" {
				continue
			}
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			out = append(out, u)
		}
	}
	return out
}

type RiskLevel string

const (
	RiskHigh    RiskLevel = "high"
	RiskMedium  RiskLevel = "medium"
	RiskLow     RiskLevel = "low"
	RiskUnknown RiskLevel = ""
)

// ClassifyRisk reads a free-text risk label such as "Low-Medium".
// The most severe word present wins.
func ClassifyRisk(risk string) RiskLevel {
	lower := strings.ToLower(risk)
	switch {
	case strings.Contains(lower, "high"):
		return RiskHigh
	case strings.Contains(lower, "medium"):
		return RiskMedium
	case strings.Contains(lower, "low"):
		return RiskLow
	}
	return RiskUnknown
}

// SummaryText is the short plain-text quote summary users copy into email.
func SummaryText(p entity.Proposal) string {
	price := "N/A"
	qty := p.MinimumOrderQuantity.Int()
	if t, ok := ReferenceTier(p); ok {
		price = FormatUSD(t.PricePerUnit.Float())
		if t.Qty() != 0 {
			qty = t.Qty()
		}
	}

	moq := "N/A"
	if n := p.MinimumOrderQuantity.Int(); n != 0 {
		moq = FormatQty(n)
	}

	sample := "No"
	if p.SampleAvailability {
		sample = "Yes"
	}

	lines := []string{
		"Product: " + orNA(p.ProductName.String()),
		fmt.Sprintf("DDP Price: %s at %s units", price, FormatQty(qty)),
		fmt.Sprintf("MOQ: %s units", moq),
		"Lead Time: " + orNA(p.LeadTime.String()),
		"Sample Available: " + sample,
	}
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
