package pricing

import "github.com/shopspring/decimal"

// RoundUSD rounds to cents, half away from zero. Output only, never before
// filter comparisons.
func RoundUSD(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
