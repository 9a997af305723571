package chart

import (
	"math"
	"testing"
	"time"

	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

func TestHoverSkipsSeriesOutsideTheirRange(t *testing.T) {
	series := []types.Series{
		{Key: "long", Name: "Long", Points: pts(0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0)},
		{Key: "late", Name: "Late", Points: pts(5, 0.5, 0.4, 0.3, 0.2, 0.1)},
	}
	sc := mustScale(t, series, nil)

	hs := ResolveHover(sc.X(day(2)), sc, series, HoverOptions{})
	if hs == nil || len(hs.Tooltips) != 1 || hs.Tooltips[0].Series.Key != "long" {
		t.Fatalf("day 2 should only hit the long series: %+v", hs)
	}
	hs = ResolveHover(sc.X(day(7)), sc, series, HoverOptions{})
	if hs == nil || len(hs.Tooltips) != 2 {
		t.Fatalf("day 7 should hit both series: %+v", hs)
	}
}

func TestHoverNearestPoint(t *testing.T) {
	series := []types.Series{{Key: "a", Points: pts(0, 0.1, 0.2, 0.3)}}
	sc := mustScale(t, series, nil)
	hs := ResolveHover(sc.X(day(1).Add(10*time.Hour)), sc, series, HoverOptions{})
	if hs == nil || hs.Tooltips[0].PointIndex != 1 {
		t.Fatalf("10h after day 1 should resolve to day 1: %+v", hs)
	}
	hs = ResolveHover(sc.X(day(1).Add(14*time.Hour)), sc, series, HoverOptions{})
	if hs == nil || hs.Tooltips[0].PointIndex != 2 {
		t.Fatalf("14h after day 1 should resolve to day 2: %+v", hs)
	}
}

func TestHoverIgnoresInvalidPoints(t *testing.T) {
	series := []types.Series{{Key: "a", Points: pts(0, 0.1, math.NaN(), 0.3)}}
	sc := mustScale(t, series, nil)
	hs := ResolveHover(sc.X(day(1)), sc, series, HoverOptions{})
	if hs == nil || hs.Tooltips[0].PointIndex == 1 {
		t.Fatalf("gap point must not be picked: %+v", hs)
	}
}

func TestHoverDeduplicatesZeroTooltips(t *testing.T) {
	series := []types.Series{
		{Key: "first", Points: pts(0, 0.001, 0.2)},
		{Key: "second", Points: pts(0, -0.002, 0.3)},
		{Key: "third", Points: pts(0, 0.15, 0.1)},
	}
	sc := mustScale(t, series, nil)
	hs := ResolveHover(sc.X(day(0)), sc, series, HoverOptions{})
	if hs == nil {
		t.Fatalf("expected hover")
	}
	zeros := 0
	for _, tip := range hs.Tooltips {
		if tip.Label == "0.00" {
			zeros++
			if tip.Series.Key != "first" {
				t.Fatalf("zero tooltip should come from the first declared series, got %q", tip.Series.Key)
			}
		}
	}
	if zeros != 1 || len(hs.Tooltips) != 2 {
		t.Fatalf("want one zero tooltip plus third series, got %+v", hs.Tooltips)
	}
}

func TestHoverGuidelinePinnedToData(t *testing.T) {
	series := []types.Series{{Key: "a", Points: pts(0, 0.1, 0.2, 0.3)}}
	sc := mustScale(t, series, nil)
	raw := sc.X(day(1)) + 7
	hs := ResolveHover(raw, sc, series, HoverOptions{})
	if hs == nil || hs.XPixel != sc.X(day(1)) {
		t.Fatalf("guideline should snap to data x %v, got %+v", sc.X(day(1)), hs)
	}
}

func TestHoverOutsideEverything(t *testing.T) {
	series := []types.Series{{Key: "a", Points: pts(0, 0.1, 0.2)}}
	sc := mustScale(t, series, nil)
	if hs := ResolveHover(sc.PlotLeft()-40, sc, series, HoverOptions{}); hs != nil {
		t.Fatalf("left of all data => %+v", hs)
	}
	if hs := ResolveHover(math.NaN(), sc, series, HoverOptions{}); hs != nil {
		t.Fatalf("NaN pointer => %+v", hs)
	}
	if hs := ResolveHover(100, nil, series, HoverOptions{}); hs != nil {
		t.Fatalf("nil scale => %+v", hs)
	}
}

func TestHoverAnnotationModeSuppressesTooltips(t *testing.T) {
	series := []types.Series{{Key: "a", Points: pts(0, 0.1, 0.2, 0.3, 0.4)}}
	sc := mustScale(t, series, nil)
	set, err := NewAnnotationSet(map[string]types.Annotation{
		"2024-01-02": {Content: "model update"},
	})
	if err != nil {
		t.Fatalf("annotations: %v", err)
	}
	hs := ResolveHover(sc.X(day(2)), sc, series, HoverOptions{Annotations: set})
	if hs == nil || hs.Annotation == nil {
		t.Fatalf("expected annotation hover: %+v", hs)
	}
	if len(hs.Tooltips) != 0 {
		t.Fatalf("tooltips must be suppressed in annotation mode: %+v", hs.Tooltips)
	}
	if hs.Annotation.Window.Content != "model update" {
		t.Fatalf("content=%q", hs.Annotation.Window.Content)
	}
	if hs := ResolveHover(sc.X(day(0)), sc, series, HoverOptions{Annotations: set}); hs != nil {
		t.Fatalf("before the first key nothing matches, got %+v", hs)
	}
}

func TestLayoutTooltipsNoOverlap(t *testing.T) {
	tips := []Tooltip{
		{SeriesIndex: 0, PixelY: 200},
		{SeriesIndex: 1, PixelY: 205},
		{SeriesIndex: 2, PixelY: 198},
		{SeriesIndex: 3, PixelY: 30},
	}
	const top, h, gap = 16.0, 22.0, 4.0
	out := LayoutTooltips(tips, top, h, gap)
	if len(out) != len(tips) {
		t.Fatalf("lost tooltips: %+v", out)
	}
	if out[0].SeriesIndex != 1 {
		t.Fatalf("lowest tooltip should be placed first: %+v", out)
	}
	if out[0].BoxY != 205 {
		t.Fatalf("first tooltip should keep its natural y: %v", out[0].BoxY)
	}
	for i := 1; i < len(out); i++ {
		if out[i].BoxY < top+h/2 {
			t.Fatalf("tooltip %d above the top margin: %v", i, out[i].BoxY)
		}
		if out[i].BoxY > out[i].PixelY {
			t.Fatalf("tooltip %d pushed below its point: %+v", i, out[i])
		}
		if out[i].BoxY > top+h/2 && out[i-1].BoxY-out[i].BoxY < h+gap-1e-9 {
			t.Fatalf("tooltips %d and %d overlap: %v %v", i-1, i, out[i-1].BoxY, out[i].BoxY)
		}
	}
	if tips[0].BoxY != 0 {
		t.Fatalf("input slice modified")
	}
}
