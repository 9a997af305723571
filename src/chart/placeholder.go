package chart

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder draws the empty/loading state: the theme background with msg
// centered in a fixed-width bitmap font. Sizes below 1px are raised to 1px.
func Placeholder(w, h int, msg string, th Theme) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if th.Name == "" {
		th = LightTheme()
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)
	if msg == "" {
		return img
	}
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(th.Text), Face: face}
	tw := dr.MeasureString(msg).Ceil()
	x := (w - tw) / 2
	if x < 0 {
		x = 0
	}
	y := h/2 + face.Metrics().Ascent.Ceil()/2
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(msg)
	return img
}
