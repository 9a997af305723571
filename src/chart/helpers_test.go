package chart

import (
	"math"
	"testing"
	"time"

	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return epoch.AddDate(0, 0, n) }

// pts builds points on consecutive days starting at day(start); NaN marks a gap.
func pts(start int, ys ...float64) []types.DataPoint {
	out := make([]types.DataPoint, len(ys))
	for i, y := range ys {
		out[i] = types.DataPoint{X: day(start + i), Y: y}
	}
	return out
}

func mustScale(t *testing.T, series []types.Series, d *types.Domain) *Scale {
	t.Helper()
	sc, err := ComputeScale(series, ScaleOptions{Domain: d, Width: 800, Height: 400})
	if err != nil {
		t.Fatalf("compute scale: %v", err)
	}
	return sc
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
