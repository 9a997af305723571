package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/PresageLabs/PrediBench-sub001/src/chart"
	"github.com/PresageLabs/PrediBench-sub001/src/config"
	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

// RunScreenshotsMode renders a curated set of chart states and writes them as
// PNGs under outDir. It runs headlessly without creating a UI window.
func RunScreenshotsMode(cfg config.Config, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	ds, ann, err := cfg.LoadInputs()
	if err != nil {
		return err
	}
	c, err := chart.NewComposer(chart.Options{Domain: ds.Domain, TickRange: cfg.TickRange(), Annotations: ann, Theme: cfg.ChartTheme()})
	if err != nil {
		return err
	}
	defer c.Close()
	c.SetSeries(ds.Series)
	c.Resize(float64(cfg.Width), float64(cfg.Height))
	sc, err := c.Scale()
	if err != nil {
		return fmt.Errorf("scale: %w", err)
	}

	// full reveal, a hover in the middle of the data, and the opposite theme
	toRender := []struct {
		name  string
		setup func()
	}{
		{"chart.png", func() {}},
		{"chart_hover.png", func() {
			c.PointerMove((sc.PlotLeft() + sc.PlotRight()) / 2)
			c.Wait()
		}},
		{"chart_" + otherTheme(cfg.Theme) + ".png", func() {
			c.SetTheme(chart.ThemeByName(otherTheme(cfg.Theme)))
		}},
	}
	for _, item := range toRender {
		item.setup()
		var buf bytes.Buffer
		if err := chart.Render(c.Model(), gochart.PNG, &buf); err != nil {
			return fmt.Errorf("render %s: %w", item.name, err)
		}
		outPath := filepath.Join(outDir, item.name)
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		logger.Infof("wrote %s", outPath)
	}

	// one screenshot per annotation window, hovered at its start
	starts, err := annotationStarts(ann)
	if err != nil {
		return err
	}
	for i, at := range starts {
		c.PointerMove(sc.X(at))
		c.Wait()
		var buf bytes.Buffer
		if err := chart.Render(c.Model(), gochart.PNG, &buf); err != nil {
			return fmt.Errorf("render annotation %s: %w", at.Format(time.RFC3339), err)
		}
		outPath := filepath.Join(outDir, fmt.Sprintf("annotation_%02d.png", i))
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
	}
	return nil
}

func otherTheme(name string) string {
	if name == "dark" {
		return "light"
	}
	return "dark"
}

// annotationStarts returns the window start times in chronological order,
// whatever date format each key was written in.
func annotationStarts(ann map[string]types.Annotation) ([]time.Time, error) {
	set, err := chart.NewAnnotationSet(ann)
	if err != nil {
		return nil, err
	}
	ws := set.Windows()
	starts := make([]time.Time, len(ws))
	for i, w := range ws {
		starts[i] = w.Start
	}
	return starts, nil
}
