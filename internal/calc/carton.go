package calc

import (
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

// CartonRow is the FBA shipment estimate for one order quantity.
type CartonRow struct {
	Quantity       int
	UnitsPerCarton int
	Cartons        int
	UnitPrice      decimal.Decimal
	TotalCost      decimal.Decimal
}

// CartonPlan computes cartons = ceil(qty / unitsPerCarton) and the order total at
// the tier quoted for exactly qty units. unitsPerCarton defaults to 1; a
// quantity without a matching tier prices at 0.
func CartonPlan(p entity.Proposal, qty int) CartonRow {
	perCarton := p.PackagingDetails.UnitsPerCarton.Int()
	if perCarton <= 0 {
		perCarton = 1
	}

	unit := decimal.Zero
	if t, ok := p.TierFor(qty); ok {
		unit = dec(t.PricePerUnit)
	}

	cartons := 0
	if qty > 0 {
		cartons = (qty + perCarton - 1) / perCarton
	}

	return CartonRow{
		Quantity:       qty,
		UnitsPerCarton: perCarton,
		Cartons:        cartons,
		UnitPrice:      unit,
		TotalCost:      unit.Mul(decimal.NewFromInt(int64(qty))),
	}
}

// CartonTable returns one CartonPlan per price tier.
func CartonTable(p entity.Proposal) []CartonRow {
	rows := make([]CartonRow, 0, len(p.DDPPriceTiers))
	for _, t := range p.DDPPriceTiers {
		rows = append(rows, CartonPlan(p, t.Qty()))
	}
	return rows
}
