package calc

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

// Cost line labels, in display order.
const (
	LineFactoryPrice = "Factory Price"
	LineFreight      = "Freight"
	LineFee          = "Nexy.ai Fee"
	LineBrokerage    = "Brokerage/ISF"
	LineMFNDuty      = "MFN Duty"
	LineSection301   = "Sec 301 Duty"
	LineMPF          = "MPF"
	LineHMF          = "HMF"
)

type LineItem struct {
	Label string
	Value decimal.Decimal
}

// CostBreakdown lists the DDP cost lines in fixed order. The Section 301 line is
// only present when the export country is China, whatever value was stored.
func CostBreakdown(p entity.Proposal) []LineItem {
	b := p.DDPCostBreakdown
	items := []LineItem{
		{LineFactoryPrice, decPtr(b.FactoryPrice)},
		{LineFreight, decPtr(b.EstimatedFreight)},
		{LineFee, decPtr(b.NexyFee)},
		{LineBrokerage, decPtr(b.BrokerageAndISF)},
		{LineMFNDuty, decPtr(b.MFNDuty)},
	}
	if IsChinaExport(p) {
		items = append(items, LineItem{LineSection301, decPtr(b.Section301Duty)})
	}
	return append(items,
		LineItem{LineMPF, decPtr(b.MPF)},
		LineItem{LineHMF, decPtr(b.HMF)},
	)
}

func IsChinaExport(p entity.Proposal) bool {
	return strings.EqualFold(p.LogisticsAssumptions.ExportCountry.String(), "china")
}

// BreakdownTotal sums the lines CostBreakdown would show.
func BreakdownTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Value)
	}
	return total
}
