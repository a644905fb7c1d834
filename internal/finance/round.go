package finance

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds a monetary amount to cents, half away from zero. Non-finite
// values become 0 so every result stays serializable.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func dec(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
