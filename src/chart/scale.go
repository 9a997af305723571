// Package chart turns time series into a renderable line chart model: tick
// selection, pixel scales, run markers, hover resolution, pointer throttling
// and date-range annotations.
//
// Dependency direction: cmd -> chart -> types. The package performs no I/O;
// drawing lives in render.go behind a go-chart RendererProvider.
package chart

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

var (
	// ErrNoData is returned when no series holds a single valid point.
	ErrNoData = errors.New("chart: no valid data points")
	// ErrNotMeasured is returned while the container is narrower than MinWidth
	// or has no vertical room for a plot.
	ErrNotMeasured = errors.New("chart: container not measured yet")
)

// DefaultMinWidth is the container width below which scales are not computed.
const DefaultMinWidth = 100

// stepEps absorbs float error when snapping values onto step multiples
// (0.3/0.1 == 2.9999999999999996).
const stepEps = 1e-9

// TickRange bounds the number of y-axis ticks.
type TickRange struct {
	Min, Max int
}

// DefaultTickRange keeps 4..9 labels on the y axis.
var DefaultTickRange = TickRange{Min: 4, Max: 9}

func (r TickRange) normalized() TickRange {
	if r.Min <= 0 && r.Max <= 0 {
		return DefaultTickRange
	}
	if r.Min < 2 {
		r.Min = 2
	}
	if r.Max < r.Min {
		r.Max = r.Min
	}
	return r
}

func (r TickRange) contains(n int64) bool { return n >= int64(r.Min) && n <= int64(r.Max) }

// Margins is the space around the plot box in pixels.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargins leave room for y labels on the left and x labels below.
var DefaultMargins = Margins{Top: 16, Right: 24, Bottom: 32, Left: 56}

// NiceSteps returns ascending candidate steps of the form {1,2,2.5,5}·10^k,
// spanning a few decades around the magnitude of span.
func NiceSteps(span float64) []float64 {
	if !(span > 0) || math.IsInf(span, 0) {
		span = 1
	}
	e := int(math.Floor(math.Log10(span)))
	out := make([]float64, 0, 24)
	for k := e - 3; k <= e+2; k++ {
		mag := math.Pow(10, float64(k))
		for _, m := range []float64{1, 2, 2.5, 5} {
			out = append(out, cleanFloat(m*mag))
		}
	}
	return out
}

// NiceTicks picks a step for data in [dataMin,dataMax] when no domain is given.
// The domain is extended to integer multiples of the step and always includes
// zero. The smallest step producing a tick count within tr wins; otherwise the
// largest candidate is used.
func NiceTicks(dataMin, dataMax float64, tr TickRange) (ticks []float64, step, lo, hi float64) {
	tr = tr.normalized()
	if dataMin > dataMax {
		dataMin, dataMax = dataMax, dataMin
	}
	if dataMin == 0 && dataMax == 0 {
		dataMax = 1
	}
	lo0 := math.Min(dataMin, 0)
	hi0 := math.Max(dataMax, 0)
	steps := NiceSteps(hi0 - lo0)
	step = steps[len(steps)-1]
	for _, s := range steps {
		kLo, kHi := floorK(lo0, s), ceilK(hi0, s)
		if tr.contains(kHi - kLo + 1) {
			step = s
			break
		}
	}
	kLo, kHi := floorK(lo0, step), ceilK(hi0, step)
	if kHi <= kLo {
		kHi = kLo + 1
	}
	ticks = multiples(kLo, kHi, step)
	return ticks, step, ticks[0], ticks[len(ticks)-1]
}

// DomainTicks picks a step for a fixed domain [lo,hi]. Ticks are the multiples
// of the step inside the domain; the domain itself is left untouched.
func DomainTicks(lo, hi float64, tr TickRange) (ticks []float64, step float64) {
	tr = tr.normalized()
	steps := NiceSteps(hi - lo)
	step = steps[len(steps)-1]
	for _, s := range steps {
		if tr.contains(floorK(hi, s) - ceilK(lo, s) + 1) {
			step = s
			break
		}
	}
	kLo, kHi := ceilK(lo, step), floorK(hi, step)
	if kHi < kLo {
		return nil, step
	}
	return multiples(kLo, kHi, step), step
}

func floorK(v, s float64) int64 { return int64(math.Floor(v/s + stepEps)) }
func ceilK(v, s float64) int64  { return int64(math.Ceil(v/s - stepEps)) }

func multiples(kLo, kHi int64, s float64) []float64 {
	out := make([]float64, 0, kHi-kLo+1)
	for k := kLo; k <= kHi; k++ {
		out = append(out, cleanFloat(float64(k)*s))
	}
	return out
}

// cleanFloat drops float noise below 12 significant digits.
func cleanFloat(v float64) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	if err != nil {
		return v
	}
	if f == 0 {
		return 0 // no negative zero
	}
	return f
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// ScaleOptions configures ComputeScale.
type ScaleOptions struct {
	Domain    *types.Domain // nil infers the domain from the data
	TickRange TickRange
	Width     float64
	Height    float64
	Margins   Margins
	MinWidth  float64
}

// Scale maps time to x pixels and values to y pixels, and back.
type Scale struct {
	TimeMin, TimeMax     time.Time
	DomainMin, DomainMax float64
	Ticks                []float64
	Step                 float64
	Width, Height        float64
	Margins              Margins
	Explicit             bool // domain supplied by the caller
}

func (s *Scale) PlotLeft() float64   { return s.Margins.Left }
func (s *Scale) PlotRight() float64  { return s.Width - s.Margins.Right }
func (s *Scale) PlotTop() float64    { return s.Margins.Top }
func (s *Scale) PlotBottom() float64 { return s.Height - s.Margins.Bottom }

// X returns the pixel column for t, NaN for a zero time.
func (s *Scale) X(t time.Time) float64 {
	if t.IsZero() {
		return math.NaN()
	}
	t0 := float64(s.TimeMin.UnixNano())
	span := float64(s.TimeMax.UnixNano()) - t0
	frac := (float64(t.UnixNano()) - t0) / span
	return s.PlotLeft() + frac*(s.PlotRight()-s.PlotLeft())
}

// InvertX returns the time under pixel column px. The zero time is returned
// when px is not finite or maps outside the representable range.
func (s *Scale) InvertX(px float64) time.Time {
	w := s.PlotRight() - s.PlotLeft()
	if !finite(px) || w <= 0 {
		return time.Time{}
	}
	t0 := float64(s.TimeMin.UnixNano())
	span := float64(s.TimeMax.UnixNano()) - t0
	ns := t0 + (px-s.PlotLeft())/w*span
	if !finite(ns) || math.Abs(ns) > 9e18 {
		return time.Time{}
	}
	return time.Unix(0, int64(math.Round(ns))).UTC()
}

// Y returns the pixel row for value v.
func (s *Scale) Y(v float64) float64 {
	frac := (v - s.DomainMin) / (s.DomainMax - s.DomainMin)
	return s.PlotBottom() - frac*(s.PlotBottom()-s.PlotTop())
}

// InvertY returns the value under pixel row py.
func (s *Scale) InvertY(py float64) float64 {
	h := s.PlotBottom() - s.PlotTop()
	if h <= 0 {
		return math.NaN()
	}
	return s.DomainMin + (s.PlotBottom()-py)/h*(s.DomainMax-s.DomainMin)
}

// ComputeScale derives both scales from the valid points of all series.
func ComputeScale(series []types.Series, opts ScaleOptions) (*Scale, error) {
	minW := opts.MinWidth
	if minW <= 0 {
		minW = DefaultMinWidth
	}
	m := opts.Margins
	if m == (Margins{}) {
		m = DefaultMargins
	}
	if opts.Width < minW || opts.Height-m.Top-m.Bottom <= 0 || opts.Width-m.Left-m.Right <= 0 {
		return nil, ErrNotMeasured
	}
	var tMin, tMax time.Time
	yMin, yMax := math.Inf(1), math.Inf(-1)
	have := false
	for _, sr := range series {
		for _, p := range sr.Points {
			if !p.Valid() {
				continue
			}
			if !have || p.X.Before(tMin) {
				tMin = p.X
			}
			if !have || p.X.After(tMax) {
				tMax = p.X
			}
			have = true
			yMin = math.Min(yMin, p.Y)
			yMax = math.Max(yMax, p.Y)
		}
	}
	if !have {
		return nil, ErrNoData
	}
	if !tMax.After(tMin) {
		tMin = tMin.Add(-12 * time.Hour)
		tMax = tMax.Add(12 * time.Hour)
	}
	sc := &Scale{TimeMin: tMin, TimeMax: tMax, Width: opts.Width, Height: opts.Height, Margins: m}
	if opts.Domain != nil && opts.Domain.Valid() {
		sc.Explicit = true
		sc.DomainMin, sc.DomainMax = opts.Domain.Min, opts.Domain.Max
		sc.Ticks, sc.Step = DomainTicks(sc.DomainMin, sc.DomainMax, opts.TickRange)
		return sc, nil
	}
	sc.Ticks, sc.Step, sc.DomainMin, sc.DomainMax = NiceTicks(yMin, yMax, opts.TickRange)
	return sc, nil
}
