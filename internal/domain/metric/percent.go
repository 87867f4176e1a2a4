package metric

import "github.com/shopspring/decimal"

// Percent returns round(part/whole*100) with halves rounded away from zero,
// clamped to [0,100]. A zero or negative whole yields 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	value := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(0).
		IntPart()
	return Clamp(int(value), 0, 100)
}

func Clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
