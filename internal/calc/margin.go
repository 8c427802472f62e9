package calc

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

// MarginRow is the retail margin at one price tier.
type MarginRow struct {
	Quantity   int
	UnitPrice  decimal.Decimal
	LandedCost decimal.Decimal
	MarginPct  decimal.Decimal
}

// MarginTable computes landed cost (tier price + packaging) and margin % per tier
// against the retail price. The table is empty when retail is not a positive
// finite number or no packaging is chosen.
func MarginTable(tiers []entity.PriceTier, packaging *entity.PackagingOption, retail float64) []MarginRow {
	if packaging == nil || math.IsNaN(retail) || math.IsInf(retail, 0) || retail <= 0 {
		return nil
	}
	r := decimal.NewFromFloat(retail)
	pkg := dec(packaging.PricePerUnit)

	rows := make([]MarginRow, 0, len(tiers))
	for _, t := range tiers {
		unit := dec(t.PricePerUnit)
		landed := unit.Add(pkg)
		rows = append(rows, MarginRow{
			Quantity:   t.Qty(),
			UnitPrice:  unit,
			LandedCost: landed,
			MarginPct:  r.Sub(landed).Div(r).Mul(hundred),
		})
	}
	return rows
}

// PackagingByName picks a packaging option, defaulting to the first one when
// name is empty. Returns nil when nothing matches.
func PackagingByName(p entity.Proposal, name string) *entity.PackagingOption {
	if len(p.PackagingOptions) == 0 {
		return nil
	}
	if name == "" {
		return &p.PackagingOptions[0]
	}
	for i := range p.PackagingOptions {
		if p.PackagingOptions[i].Name.String() == name {
			return &p.PackagingOptions[i]
		}
	}
	return nil
}
