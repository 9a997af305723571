package chart

import (
	"math"
	"testing"
)

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{0.004, "0.00"},
		{-0.004, "0.00"},
		{0.005, "0.01"},
		{0.1234, "0.12"},
		{-1.5, "-1.50"},
		{math.NaN(), "–"},
		{math.Inf(-1), "–"},
	}
	for _, c := range cases {
		if got := FormatValue(c.in); got != c.want {
			t.Fatalf("FormatValue(%v)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestStepDecimalsAndTicks(t *testing.T) {
	cases := []struct {
		step float64
		want int32
	}{
		{0.05, 2},
		{0.25, 2},
		{0.1, 1},
		{0.0025, 4},
		{1, 0},
		{50, 0},
	}
	for _, c := range cases {
		if got := StepDecimals(c.step); got != c.want {
			t.Fatalf("StepDecimals(%v)=%d want %d", c.step, got, c.want)
		}
	}
	if got := FormatTick(0.1, 0.05); got != "0.10" {
		t.Fatalf("FormatTick(0.1,0.05)=%q", got)
	}
	if got := FormatTick(-0.4, 0.2); got != "-0.4" {
		t.Fatalf("FormatTick(-0.4,0.2)=%q", got)
	}
	if got := FormatTick(100, 50); got != "100" {
		t.Fatalf("FormatTick(100,50)=%q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(0.125); got != "12.5%" {
		t.Fatalf("FormatPercent(0.125)=%q", got)
	}
	if got := FormatPercent(-0.05); got != "-5.0%" {
		t.Fatalf("FormatPercent(-0.05)=%q", got)
	}
}
