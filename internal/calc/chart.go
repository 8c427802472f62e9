package calc

import (
	"strconv"

	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

// ChartPoint is one bar of the price-by-volume chart.
type ChartPoint struct {
	Label string  // "0.5k", "1k", "5k"
	X     float64 // quantity / 1000
	Y     float64 // unit price
}

func ChartSeries(tiers []entity.PriceTier) []ChartPoint {
	points := make([]ChartPoint, 0, len(tiers))
	for _, t := range tiers {
		x := t.Quantity.Float() / 1000
		points = append(points, ChartPoint{
			Label: strconv.FormatFloat(x, 'f', -1, 64) + "k",
			X:     x,
			Y:     t.PricePerUnit.Float(),
		})
	}
	return points
}
