package chart

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Theme carries every colour the renderer uses. It is passed explicitly so a
// render never depends on ambient window state.
type Theme struct {
	Name           string
	Background     drawing.Color
	Text           drawing.Color
	Grid           drawing.Color
	Ghost          drawing.Color
	Guideline      drawing.Color
	TooltipBG      drawing.Color
	TooltipText    drawing.Color
	AnnotationFill drawing.Color
	AnnotationText drawing.Color
	DefaultSeries  []drawing.Color
}

var defaultPalette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
}

// LightTheme is the default.
func LightTheme() Theme {
	return Theme{
		Name:           "light",
		Background:     drawing.ColorWhite,
		Text:           drawing.Color{R: 60, G: 60, B: 60, A: 255},
		Grid:           drawing.Color{R: 225, G: 225, B: 225, A: 255},
		Ghost:          drawing.Color{R: 200, G: 200, B: 200, A: 255},
		Guideline:      drawing.Color{R: 150, G: 150, B: 150, A: 255},
		TooltipBG:      drawing.Color{R: 255, G: 255, B: 255, A: 235},
		TooltipText:    drawing.Color{R: 30, G: 30, B: 30, A: 255},
		AnnotationFill: drawing.Color{R: 59, G: 130, B: 246, A: 40},
		AnnotationText: drawing.Color{R: 30, G: 30, B: 30, A: 255},
		DefaultSeries:  defaultPalette,
	}
}

// DarkTheme mirrors LightTheme for dark backgrounds.
func DarkTheme() Theme {
	return Theme{
		Name:           "dark",
		Background:     drawing.Color{R: 18, G: 18, B: 18, A: 255},
		Text:           drawing.Color{R: 220, G: 220, B: 220, A: 255},
		Grid:           drawing.Color{R: 50, G: 50, B: 50, A: 255},
		Ghost:          drawing.Color{R: 80, G: 80, B: 80, A: 255},
		Guideline:      drawing.Color{R: 200, G: 200, B: 200, A: 220},
		TooltipBG:      drawing.Color{R: 0, G: 0, B: 0, A: 200},
		TooltipText:    drawing.Color{R: 240, G: 240, B: 240, A: 255},
		AnnotationFill: drawing.Color{R: 96, G: 165, B: 250, A: 50},
		AnnotationText: drawing.Color{R: 240, G: 240, B: 240, A: 255},
		DefaultSeries:  defaultPalette,
	}
}

// ThemeByName returns DarkTheme for "dark" and LightTheme otherwise.
func ThemeByName(name string) Theme {
	if strings.EqualFold(strings.TrimSpace(name), "dark") {
		return DarkTheme()
	}
	return LightTheme()
}

// SeriesColor resolves a series' hex colour, falling back to the palette.
func (t Theme) SeriesColor(hex string, idx int) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 6 || len(hex) == 3 {
		return drawing.ColorFromHex(hex)
	}
	if len(t.DefaultSeries) == 0 {
		return drawing.ColorBlack
	}
	return t.DefaultSeries[idx%len(t.DefaultSeries)]
}
