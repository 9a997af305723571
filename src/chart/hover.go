package chart

import (
	"math"
	"sort"
	"time"

	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

// Tooltip is one series' value at the hovered time.
type Tooltip struct {
	SeriesIndex int
	Series      types.Series
	Point       types.DataPoint
	PointIndex  int
	PixelX      float64
	PixelY      float64
	Label       string
	BoxY        float64 // vertical center of the placed tooltip box
}

// HoverState is the complete overlay for one pointer position. It is
// replaced as a whole on every update.
type HoverState struct {
	XPixel     float64
	Time       time.Time
	Tooltips   []Tooltip
	Annotation *AnnotationHover
}

// HoverOptions tunes ResolveHover.
type HoverOptions struct {
	Annotations   *AnnotationSet
	Format        Formatter // nil uses FormatValue
	TooltipHeight float64
	TooltipGap    float64
	Narrow        bool
}

const (
	defaultTooltipHeight = 22
	defaultTooltipGap    = 4
)

// ResolveHover maps pointer column xPixel to the nearest point of each series.
// It returns nil when nothing is under the pointer.
func ResolveHover(xPixel float64, sc *Scale, series []types.Series, opts HoverOptions) *HoverState {
	if sc == nil {
		return nil
	}
	t := sc.InvertX(xPixel)
	if t.IsZero() {
		return nil
	}
	if opts.Annotations.Len() > 0 {
		w, idx, ok := opts.Annotations.Match(t)
		if !ok {
			return nil
		}
		x0, x1, cx := Highlight(w, sc, opts.Narrow)
		return &HoverState{
			XPixel:     xPixel,
			Time:       t,
			Annotation: &AnnotationHover{Window: w, Index: idx, X0: x0, X1: x1, ContentX: cx},
		}
	}

	format := opts.Format
	if format == nil {
		format = FormatValue
	}
	zero := format(0)
	sawZero := false
	var tips []Tooltip
	for si, s := range series {
		pi, ok := nearestValid(s.Points, t)
		if !ok {
			continue
		}
		p := s.Points[pi]
		px, py := sc.X(p.X), sc.Y(p.Y)
		if !finite(px) || !finite(py) {
			continue
		}
		label := format(p.Y)
		if label == zero {
			// identical "0.00" labels stacked on top of each other carry no
			// information; the earliest declared series keeps its tooltip
			if sawZero {
				continue
			}
			sawZero = true
		}
		tips = append(tips, Tooltip{SeriesIndex: si, Series: s, Point: p, PointIndex: pi, PixelX: px, PixelY: py, Label: label})
	}
	if len(tips) == 0 {
		return nil
	}
	// guideline and reveal clip follow the first hit point, not the raw pointer
	hs := &HoverState{XPixel: tips[0].PixelX, Time: tips[0].Point.X}
	hs.Tooltips = LayoutTooltips(tips, sc.PlotTop(), opts.TooltipHeight, opts.TooltipGap)
	return hs
}

// nearestValid returns the index of the valid point closest in time to t.
// It fails when t lies outside the series' own valid range.
func nearestValid(points []types.DataPoint, t time.Time) (int, bool) {
	valid := make([]int, 0, len(points))
	for i, p := range points {
		if p.Valid() {
			valid = append(valid, i)
		}
	}
	if len(valid) == 0 {
		return -1, false
	}
	sort.SliceStable(valid, func(a, b int) bool { return points[valid[a]].X.Before(points[valid[b]].X) })
	first, last := points[valid[0]].X, points[valid[len(valid)-1]].X
	if t.Before(first) || t.After(last) {
		return -1, false
	}
	j := sort.Search(len(valid), func(i int) bool { return !points[valid[i]].X.Before(t) })
	best, bestD := -1, time.Duration(math.MaxInt64)
	for _, k := range []int{j - 1, j} {
		if k < 0 || k >= len(valid) {
			continue
		}
		d := points[valid[k]].X.Sub(t)
		if d < 0 {
			d = -d
		}
		if d < bestD {
			best, bestD = valid[k], d
		}
	}
	return best, best >= 0
}

// LayoutTooltips orders tooltips bottom to top and assigns each a box center
// as close to its point as possible without overlapping the box below it or
// rising above plotTop.
func LayoutTooltips(tips []Tooltip, plotTop, height, gap float64) []Tooltip {
	if height <= 0 {
		height = defaultTooltipHeight
	}
	if gap <= 0 {
		gap = defaultTooltipGap
	}
	out := append([]Tooltip(nil), tips...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PixelY > out[j].PixelY })
	minCenter := plotTop + height/2
	for i := range out {
		y := out[i].PixelY
		if i > 0 {
			y = math.Min(y, out[i-1].BoxY-(height+gap))
		}
		out[i].BoxY = math.Max(y, minCenter)
	}
	return out
}
