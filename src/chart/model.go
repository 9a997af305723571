package chart

import (
	"errors"
	"time"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

// Pt is a pixel coordinate.
type Pt struct{ X, Y float64 }

// AxisTick is a labelled tick. Value is set on y ticks, Time on x ticks.
type AxisTick struct {
	Value float64
	Time  time.Time
	Pixel float64
	Label string
}

// SeriesGeometry is everything drawn for one series.
type SeriesGeometry struct {
	Key     string
	Name    string
	Color   drawing.Color
	Ghost   [][]Pt // full history, drawn in the theme's ghost colour
	Lines   [][]Pt // coloured, clipped at the reveal time
	Markers []Pt
}

// RenderModel is the presentation-ready chart.
type RenderModel struct {
	Width, Height float64
	ChartHeight   float64
	Narrow        bool
	Theme         Theme

	// Empty is set when no plot can be drawn; Message says why.
	Empty   bool
	Message string

	Scale     *Scale
	YTicks    []AxisTick
	XTicks    []AxisTick
	Gridlines []float64 // y pixels, one per y tick
	Series    []SeriesGeometry

	// RevealTime is the clip applied to coloured lines; zero means full reveal.
	RevealTime time.Time
	Hover      *HoverState
	// AnnotationTop is the top edge of the annotation content block.
	AnnotationTop float64
}

// ModelInput collects the state BuildModel reads.
type ModelInput struct {
	Series      []types.Series
	Scale       *Scale
	ScaleErr    error
	Hover       *HoverState
	Theme       Theme
	Width       float64
	Height      float64
	ChartHeight float64
	Narrow      bool
	Annotations *AnnotationSet
}

// Placeholder messages for RenderModel.Empty.
const (
	MessageLoading = "Loading…"
	MessageNoData  = "No data available"
)

// BuildModel projects series, ticks and hover state into pixels. Points that
// project to non-finite pixels are skipped.
func BuildModel(in ModelInput) RenderModel {
	m := RenderModel{
		Width:       in.Width,
		Height:      in.Height,
		ChartHeight: in.ChartHeight,
		Narrow:      in.Narrow,
		Theme:       in.Theme,
	}
	sc := in.Scale
	if in.ScaleErr != nil || sc == nil {
		m.Empty = true
		m.Message = MessageLoading
		if errors.Is(in.ScaleErr, ErrNoData) {
			m.Message = MessageNoData
		}
		return m
	}
	m.Scale = sc
	for _, v := range sc.Ticks {
		py := sc.Y(v)
		if !finite(py) {
			continue
		}
		m.YTicks = append(m.YTicks, AxisTick{Value: v, Pixel: py, Label: FormatTick(v, sc.Step)})
		m.Gridlines = append(m.Gridlines, py)
	}
	step := PickTimeStep(sc.TimeMax.Sub(sc.TimeMin), sc.PlotRight()-sc.PlotLeft())
	for _, t := range TimeTicks(sc.TimeMin, sc.TimeMax, step) {
		px := sc.X(t)
		if !finite(px) {
			continue
		}
		m.XTicks = append(m.XTicks, AxisTick{Time: t, Pixel: px, Label: t.Format(step.Layout)})
	}

	m.Hover = in.Hover
	if in.Hover != nil && in.Hover.Annotation == nil {
		m.RevealTime = in.Hover.Time
	}
	for i, s := range in.Series {
		g := SeriesGeometry{Key: s.Key, Name: s.DisplayName(), Color: in.Theme.SeriesColor(s.Color, i)}
		g.Ghost = project(s.Points, Segments(s.Points, time.Time{}), sc)
		g.Lines = project(s.Points, Segments(s.Points, m.RevealTime), sc)
		for _, idx := range ResolveMarkers(s.Points, m.RevealTime) {
			p := s.Points[idx]
			pt := Pt{X: sc.X(p.X), Y: sc.Y(p.Y)}
			if finite(pt.X) && finite(pt.Y) {
				g.Markers = append(g.Markers, pt)
			}
		}
		m.Series = append(m.Series, g)
	}
	m.AnnotationTop = sc.PlotTop()
	if in.Narrow && in.Annotations.Len() > 0 {
		m.AnnotationTop = in.ChartHeight
	}
	return m
}

func project(points []types.DataPoint, runs [][]int, sc *Scale) [][]Pt {
	var out [][]Pt
	for _, run := range runs {
		path := make([]Pt, 0, len(run))
		for _, idx := range run {
			p := points[idx]
			pt := Pt{X: sc.X(p.X), Y: sc.Y(p.Y)}
			if !finite(pt.X) || !finite(pt.Y) {
				continue
			}
			path = append(path, pt)
		}
		if len(path) > 0 {
			out = append(out, path)
		}
	}
	return out
}
