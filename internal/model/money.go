package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// Finite returns v, or fallback when v is NaN or infinite.
func Finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// Round2 rounds to cents, half away from zero. Non-finite values become 0.
func Round2(v float64) float64 {
	v = Finite(v, 0)
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// SumRound2 adds the finite values and rounds the total once.
func SumRound2(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(Finite(v, 0)))
	}
	return total.Round(2).InexactFloat64()
}
