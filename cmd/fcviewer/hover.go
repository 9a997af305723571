package main

import (
	"image/color"
	"strconv"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/PresageLabs/PrediBench-sub001/cmd/fcviewer/uihelpers"
	"github.com/PresageLabs/PrediBench-sub001/src/chart"
	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

// hoverOverlay sits on top of the chart image and forwards pointer movement
// to the composer. The guideline, tooltips and annotation box are drawn into
// the chart image itself, so the overlay only provides the hit area.
type hoverOverlay struct {
	widget.BaseWidget
	state *uiState
}

func newHoverOverlay(state *uiState) *hoverOverlay {
	h := &hoverOverlay{state: state}
	h.ExtendBaseWidget(h)
	return h
}

func (h *hoverOverlay) CreateRenderer() fyne.WidgetRenderer {
	// transparent background to ensure full hit-area for hover events
	bg := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 0})
	return &hoverRenderer{bg: bg, objs: []fyne.CanvasObject{bg}}
}

type hoverRenderer struct {
	bg   *canvas.Rectangle
	objs []fyne.CanvasObject
}

func (r *hoverRenderer) Destroy()                     {}
func (r *hoverRenderer) Layout(size fyne.Size)        { r.bg.Resize(size); r.bg.Move(fyne.NewPos(0, 0)) }
func (r *hoverRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *hoverRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *hoverRenderer) Refresh()                     { r.bg.Refresh() }

// imagePixel maps an overlay position to chart image pixels.
func (h *hoverOverlay) imagePixel(pos fyne.Position) (float64, bool) {
	s := h.state
	if s == nil || s.imgCanvas == nil || s.imgCanvas.Image == nil {
		return 0, false
	}
	b := s.imgCanvas.Image.Bounds()
	size := h.Size()
	x, _, ok := uihelpers.ViewToImage(pos.X, pos.Y, float32(b.Dx()), float32(b.Dy()), size.Width, size.Height)
	return x, ok
}

// Implement mouse movement handling
func (h *hoverOverlay) MouseMoved(ev *desktop.MouseEvent) {
	x, ok := h.imagePixel(ev.Position)
	if !ok {
		h.state.composer.PointerLeave()
		return
	}
	h.state.composer.PointerMove(x)
}
func (h *hoverOverlay) MouseIn(ev *desktop.MouseEvent) { h.MouseMoved(ev) }
func (h *hoverOverlay) MouseOut()                      { h.state.composer.PointerLeave() }

// Assert that hoverOverlay implements desktop.Hoverable
var _ desktop.Hoverable = (*hoverOverlay)(nil)

// seriesRow is one line of the series table.
type seriesRow struct {
	name  string
	last  string
	count int
}

func (r seriesRow) cell(col int) string {
	switch col {
	case 0:
		return r.name
	case 1:
		return r.last
	case 2:
		return strconv.Itoa(r.count)
	}
	return ""
}

// seriesRows summarizes each series: display name, latest valid value and
// the number of valid points.
func seriesRows(series []types.Series) []seriesRow {
	rows := make([]seriesRow, 0, len(series))
	for _, s := range series {
		r := seriesRow{name: s.DisplayName(), last: "–"}
		var lastT int64
		for _, p := range s.Points {
			if !p.Valid() {
				continue
			}
			r.count++
			if t := p.X.UnixNano(); r.count == 1 || t >= lastT {
				lastT = t
				r.last = chart.FormatValue(p.Y)
			}
		}
		rows = append(rows, r)
	}
	return rows
}
