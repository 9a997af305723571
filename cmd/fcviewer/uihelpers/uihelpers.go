package uihelpers

import (
	"math"

	"github.com/PresageLabs/PrediBench-sub001/src/chart"
)

// ComputeChartDimensions applies the width/height clamp rules used for the
// chart image. Input is the available canvas size; the chart keeps a 2:1
// aspect where possible and never drops below the minimum measurable width.
func ComputeChartDimensions(rawW, rawH float32) (int, int) {
	w := int(rawW)
	if w < chart.DefaultMinWidth {
		w = chart.DefaultMinWidth
	}
	h := int(float32(w) * 0.5)
	if h < 240 {
		h = 240
	}
	if h > 560 {
		h = 560
	}
	if rawH > 0 && int(rawH) < h {
		h = int(rawH)
		if h < 160 {
			h = 160
		}
	}
	return w, h
}

// ComputeTableColumnWidths returns the 3 column widths for the series table:
// Name, Last value, Points. Narrow windows drop the point count.
func ComputeTableColumnWidths(winW float32) [3]int {
	if winW < chart.DefaultNarrowWidth {
		return [3]int{140, 70, 0}
	}
	if winW < 1000 {
		return [3]int{180, 80, 60}
	}
	return [3]int{240, 100, 70}
}

// ContainRect returns where an imgW x imgH image lands when drawn with
// contain-fit inside a viewW x viewH area, and the scale applied.
func ContainRect(imgW, imgH, viewW, viewH float32) (x, y, w, h, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, 0, 0, 0
	}
	scale = viewW / imgW
	if sy := viewH / imgH; sy < scale {
		scale = sy
	}
	w, h = imgW*scale, imgH*scale
	return (viewW - w) / 2, (viewH - h) / 2, w, h, scale
}

// ViewToImage maps a position inside the view to image pixel coordinates.
// ok is false when the position falls outside the drawn image.
func ViewToImage(px, py, imgW, imgH, viewW, viewH float32) (ix, iy float64, ok bool) {
	x, y, w, h, scale := ContainRect(imgW, imgH, viewW, viewH)
	if scale <= 0 || px < x || px > x+w || py < y || py > y+h {
		return math.NaN(), math.NaN(), false
	}
	return float64((px - x) / scale), float64((py - y) / scale), true
}
