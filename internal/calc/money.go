// Package calc holds the pure calculations layered over a parsed Proposal:
// margins, carton math, cost lines, chart series and summary helpers.
// Nothing here returns an error; bad or missing inputs produce zeros or
// empty tables.
package calc

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

var hundred = decimal.NewFromInt(100)

// finite maps NaN and the infinities to 0; decimal panics on them.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Amount converts a float to a decimal, reading NaN and the infinities as 0.
func Amount(f float64) decimal.Decimal {
	return decimal.NewFromFloat(finite(f))
}

func dec(n entity.Number) decimal.Decimal {
	return Amount(n.Float())
}

func decPtr(n *entity.Number) decimal.Decimal {
	return Amount(n.Value())
}

// FormatUSD renders a dollar amount with two decimals, e.g. "$0.98".
// Non-finite amounts render as "$0.00".
func FormatUSD(f float64) string {
	return "$" + Amount(f).StringFixed(2)
}

// FormatQty renders an integer with thousands separators, e.g. "5,000".
func FormatQty(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
