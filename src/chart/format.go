package chart

import (
	"math"

	"github.com/shopspring/decimal"
)

// Formatter renders a value for tooltips. Two values that format identically
// are visually indistinguishable to the reader.
type Formatter func(float64) string

// DefaultDecimals is the tooltip display precision.
const DefaultDecimals = 2

// FormatValue renders v with two decimals. Tiny negatives print as "0.00".
func FormatValue(v float64) string { return FormatFixed(v, DefaultDecimals) }

// FormatFixed renders v with the given number of decimals.
func FormatFixed(v float64, decimals int32) string {
	if !finite(v) {
		return "–"
	}
	return decimal.NewFromFloat(v).StringFixed(decimals)
}

// FormatPercent renders a fraction as a percentage ("0.125" -> "12.5%").
func FormatPercent(v float64) string {
	if !finite(v) {
		return "–"
	}
	return decimal.NewFromFloat(v).Shift(2).StringFixed(1) + "%"
}

// StepDecimals is the number of decimals needed to print multiples of step exactly.
func StepDecimals(step float64) int32 {
	if !finite(step) || step == 0 {
		return 0
	}
	exp := decimal.NewFromFloat(math.Abs(step)).Exponent()
	if exp >= 0 {
		return 0
	}
	return -exp
}

// FormatTick labels a y tick so all labels of one axis share a precision.
func FormatTick(v, step float64) string {
	return FormatFixed(v, StepDecimals(step))
}
