package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	fontSize          = 9
	tooltipPad        = 5
	markerRadius      = 2.5
	hoverMarkerRadius = 4
	annotationMaxW    = 280
)

// Render draws m with a go-chart renderer (gochart.PNG or gochart.SVG) and
// writes the encoded result to w.
func Render(m RenderModel, provider gochart.RendererProvider, w io.Writer) error {
	width, height := int(math.Round(m.Width)), int(math.Round(m.Height))
	if width <= 0 || height <= 0 {
		return ErrNotMeasured
	}
	r, err := provider(width, height)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	r.SetFont(font)
	r.SetFontSize(fontSize)
	th := m.Theme

	fillRect(r, 0, 0, float64(width), float64(height), th.Background)
	if m.Empty {
		r.SetFontColor(th.Text)
		tb := r.MeasureText(m.Message)
		r.Text(m.Message, (width-tb.Width())/2, height/2)
		return r.Save(w)
	}
	sc := m.Scale

	// annotation highlight sits under the data
	if m.Hover != nil && m.Hover.Annotation != nil {
		a := m.Hover.Annotation
		fillRect(r, a.X0, sc.PlotTop(), a.X1, sc.PlotBottom(), th.AnnotationFill)
	}

	drawAxes(r, m)

	for _, g := range m.Series {
		strokePaths(r, g.Ghost, th.Ghost, 1.5)
	}
	for _, g := range m.Series {
		strokePaths(r, g.Lines, g.Color, 2)
		for _, p := range g.Markers {
			dot(r, p, markerRadius, g.Color, g.Color)
		}
	}

	if m.Hover != nil {
		if m.Hover.Annotation != nil {
			drawAnnotation(r, m)
		} else {
			drawTooltips(r, m)
		}
	}
	return r.Save(w)
}

// RenderImage renders m to an in-memory image. Empty models get the
// placeholder image instead of a chart.
func RenderImage(m RenderModel) (image.Image, error) {
	if m.Empty {
		return Placeholder(int(m.Width), int(m.Height), m.Message, m.Theme), nil
	}
	var buf bytes.Buffer
	if err := Render(m, gochart.PNG, &buf); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}

func drawAxes(r gochart.Renderer, m RenderModel) {
	sc, th := m.Scale, m.Theme
	left, right := sc.PlotLeft(), sc.PlotRight()
	r.SetFontColor(th.Text)
	for i, py := range m.Gridlines {
		line(r, Pt{left, py}, Pt{right, py}, th.Grid, 1, nil)
		label := m.YTicks[i].Label
		tb := r.MeasureText(label)
		r.Text(label, int(left)-tb.Width()-6, int(py)+tb.Height()/2)
	}
	bottom := sc.PlotBottom()
	line(r, Pt{left, bottom}, Pt{right, bottom}, th.Text, 1, nil)
	for _, tk := range m.XTicks {
		line(r, Pt{tk.Pixel, bottom}, Pt{tk.Pixel, bottom + 4}, th.Text, 1, nil)
		tb := r.MeasureText(tk.Label)
		x := int(tk.Pixel) - tb.Width()/2
		if x < 0 || x+tb.Width() > int(m.Width) {
			continue
		}
		r.Text(tk.Label, x, int(bottom)+6+tb.Height())
	}
}

func drawTooltips(r gochart.Renderer, m RenderModel) {
	sc, th, hs := m.Scale, m.Theme, m.Hover
	line(r, Pt{hs.XPixel, sc.PlotTop()}, Pt{hs.XPixel, sc.PlotBottom()}, th.Guideline, 1, []float64{4, 3})
	for _, tip := range hs.Tooltips {
		col := th.SeriesColor(tip.Series.Color, tip.SeriesIndex)
		dot(r, Pt{tip.PixelX, tip.PixelY}, hoverMarkerRadius, th.Background, col)

		text := tip.Series.DisplayName() + ": " + tip.Label
		tb := r.MeasureText(text)
		bw := float64(tb.Width()) + 2*tooltipPad
		bh := float64(tb.Height()) + 2*tooltipPad
		x := tip.PixelX + 8
		if x+bw > m.Width {
			x = tip.PixelX - 8 - bw
		}
		y := tip.BoxY - bh/2
		fillRect(r, x, y, x+bw, y+bh, th.TooltipBG)
		strokeRect(r, x, y, x+bw, y+bh, col)
		r.SetFontColor(th.TooltipText)
		r.Text(text, int(x+tooltipPad), int(y+tooltipPad)+tb.Height())
	}
}

func drawAnnotation(r gochart.Renderer, m RenderModel) {
	th, a := m.Theme, m.Hover.Annotation
	lines := wrapText(r, a.Window.Content, annotationMaxW-2*tooltipPad)
	if len(lines) == 0 {
		return
	}
	lh := r.MeasureText("Ag").Height() + 3
	bw := 0
	for _, l := range lines {
		if w := r.MeasureText(l).Width(); w > bw {
			bw = w
		}
	}
	boxW := float64(bw) + 2*tooltipPad
	boxH := float64(lh*len(lines)) + 2*tooltipPad
	x := math.Max(0, math.Min(m.Width-boxW, a.ContentX-boxW/2))
	y := m.AnnotationTop + 4
	fillRect(r, x, y, x+boxW, y+boxH, th.TooltipBG)
	strokeRect(r, x, y, x+boxW, y+boxH, th.Guideline)
	r.SetFontColor(th.AnnotationText)
	for i, l := range lines {
		r.Text(l, int(x+tooltipPad), int(y+tooltipPad)+lh*(i+1)-3)
	}
}

// wrapText breaks s into lines no wider than maxW pixels.
func wrapText(r gochart.Renderer, s string, maxW int) []string {
	var out []string
	for _, para := range strings.Split(strings.TrimSpace(s), "\n") {
		cur := ""
		for _, word := range strings.Fields(para) {
			next := word
			if cur != "" {
				next = cur + " " + word
			}
			if cur != "" && r.MeasureText(next).Width() > maxW {
				out = append(out, cur)
				cur = word
				continue
			}
			cur = next
		}
		if cur != "" {
			out = append(out, cur)
		}
	}
	return out
}

func strokePaths(r gochart.Renderer, paths [][]Pt, col drawing.Color, width float64) {
	r.SetStrokeColor(col)
	r.SetStrokeWidth(width)
	r.SetStrokeDashArray(nil)
	for _, path := range paths {
		if len(path) < 2 {
			continue
		}
		r.MoveTo(px(path[0].X), px(path[0].Y))
		for _, p := range path[1:] {
			r.LineTo(px(p.X), px(p.Y))
		}
		r.Stroke()
	}
}

func line(r gochart.Renderer, a, b Pt, col drawing.Color, width float64, dash []float64) {
	r.SetStrokeColor(col)
	r.SetStrokeWidth(width)
	r.SetStrokeDashArray(dash)
	r.MoveTo(px(a.X), px(a.Y))
	r.LineTo(px(b.X), px(b.Y))
	r.Stroke()
	r.SetStrokeDashArray(nil)
}

func dot(r gochart.Renderer, p Pt, radius float64, fill, stroke drawing.Color) {
	r.SetFillColor(fill)
	r.SetStrokeColor(stroke)
	r.SetStrokeWidth(1.5)
	r.Circle(radius, px(p.X), px(p.Y))
	r.FillStroke()
}

func rectPath(r gochart.Renderer, x0, y0, x1, y1 float64) {
	r.MoveTo(px(x0), px(y0))
	r.LineTo(px(x1), px(y0))
	r.LineTo(px(x1), px(y1))
	r.LineTo(px(x0), px(y1))
	r.LineTo(px(x0), px(y0))
	r.Close()
}

func fillRect(r gochart.Renderer, x0, y0, x1, y1 float64, col drawing.Color) {
	r.SetFillColor(col)
	rectPath(r, x0, y0, x1, y1)
	r.Fill()
}

func strokeRect(r gochart.Renderer, x0, y0, x1, y1 float64, col drawing.Color) {
	r.SetStrokeColor(col)
	r.SetStrokeWidth(1)
	rectPath(r, x0, y0, x1, y1)
	r.Stroke()
}

func px(v float64) int { return int(math.Round(v)) }
