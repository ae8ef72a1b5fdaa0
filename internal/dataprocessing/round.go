package dataprocessing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds v half away from zero to two decimal places. Non-finite
// values are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
