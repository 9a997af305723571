package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/PresageLabs/PrediBench-sub001/cmd/fcviewer/uihelpers"
	"github.com/PresageLabs/PrediBench-sub001/src/chart"
	"github.com/PresageLabs/PrediBench-sub001/src/config"
	"github.com/PresageLabs/PrediBench-sub001/src/dataset"
	"github.com/PresageLabs/PrediBench-sub001/src/logging"
	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

var logger = logging.New("viewer")

type uiState struct {
	app    fyne.App
	window fyne.Window
	cfg    config.Config

	composer    *chart.Composer
	series      []types.Series
	rows        []seriesRow // table summary of series
	annotations map[string]types.Annotation
	domain      *types.Domain

	// widgets
	imgCanvas *canvas.Image
	overlay   *hoverOverlay
	table     *widget.Table
	fileLabel *widget.Label
	status    *widget.Label

	// chart size last requested from the composer, in image pixels
	chartW, chartH int
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg.RegisterFlags(flag.CommandLine)
	var screenshotDir string
	flag.StringVar(&screenshotDir, "screenshots", "", "Render PNG screenshots into this directory and exit (no window)")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if !logging.SetLogLevel(cfg.LogLevel) {
		logger.Warnf("unknown log level %q, keeping %v", cfg.LogLevel, logging.GetLogLevel())
	}

	if screenshotDir != "" {
		if err := RunScreenshotsMode(cfg, screenshotDir); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.predibench.fcviewer")
	// a persisted theme choice wins unless one was configured explicitly
	if _, set := os.LookupEnv(config.EnvPrefix + "THEME"); !set && !flagSet("theme") {
		cfg.Theme = a.Preferences().StringWithFallback("theme", cfg.Theme)
	}
	if cfg.Theme == "dark" {
		a.Settings().SetTheme(&darkTheme{})
	}
	w := a.NewWindow("Forecast Chart Viewer")
	w.Resize(fyne.NewSize(float32(cfg.Width)+40, float32(cfg.Height)+160))

	state := &uiState{app: a, window: w, cfg: cfg}
	if err := state.newComposer(nil); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	state.imgCanvas = canvas.NewImageFromImage(chart.Placeholder(cfg.Width, cfg.Height, chart.MessageLoading, cfg.ChartTheme()))
	state.imgCanvas.FillMode = canvas.ImageFillContain
	state.imgCanvas.SetMinSize(fyne.NewSize(float32(cfg.Width)/2, float32(cfg.Height)/2))
	state.overlay = newHoverOverlay(state)

	state.fileLabel = widget.NewLabel("(no file)")
	state.status = widget.NewLabel("")
	openBtn := widget.NewButton("Open…", func() { openFileDialog(state) })
	notesBtn := widget.NewButton("Annotations…", func() { openAnnotationsDialog(state) })
	darkChk := widget.NewCheck("Dark", nil)
	darkChk.SetChecked(cfg.Theme == "dark")
	darkChk.OnChanged = func(b bool) {
		state.cfg.Theme = "light"
		if b {
			state.cfg.Theme = "dark"
			a.Settings().SetTheme(&darkTheme{})
		} else {
			a.Settings().SetTheme(theme.DefaultTheme())
		}
		a.Preferences().SetString("theme", state.cfg.Theme)
		state.composer.SetTheme(state.cfg.ChartTheme())
	}

	state.table = widget.NewTable(
		func() (int, int) { return len(state.rows) + 1, 3 },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			if id.Row == 0 {
				lbl.SetText([]string{"Series", "Last", "Points"}[id.Col])
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			lbl.SetText(state.tableCell(id.Row-1, id.Col))
		},
	)
	applyColumnWidths(state)

	top := container.NewHBox(openBtn, notesBtn, darkChk, widget.NewSeparator(), state.fileLabel)
	chartArea := container.NewStack(state.imgCanvas, state.overlay)
	split := container.NewVSplit(chartArea, state.table)
	split.SetOffset(0.75)
	w.SetContent(container.NewBorder(top, state.status, nil, nil, split))

	if cfg.DataFile != "" {
		loadAll(state)
	}

	// track canvas size so the chart is re-laid out when the window changes
	prevW, prevH := float32(-1), float32(-1)
	done := make(chan struct{})
	w.SetOnClosed(func() {
		close(done)
		state.composer.Close()
	})
	go func() {
		t := time.NewTicker(300 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				fyne.Do(func() {
					sz := state.imgCanvas.Size()
					if sz.Width == prevW && sz.Height == prevH {
						return
					}
					prevW, prevH = sz.Width, sz.Height
					state.chartW, state.chartH = uihelpers.ComputeChartDimensions(sz.Width, sz.Height)
					state.composer.Resize(float64(state.chartW), float64(state.chartH))
					applyColumnWidths(state)
				})
			}
		}
	}()

	w.ShowAndRun()
}

// flagSet reports whether the named flag was given on the command line.
func flagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// newComposer replaces the chart composer, e.g. after the annotation set
// changed. Annotation keys are validated here.
func (s *uiState) newComposer(annotations map[string]types.Annotation) error {
	c, err := chart.NewComposer(chart.Options{
		Domain:      s.domain,
		TickRange:   s.cfg.TickRange(),
		Annotations: annotations,
		Theme:       s.cfg.ChartTheme(),
		OnChange:    func() { fyne.Do(func() { redrawChart(s) }) },
	})
	if err != nil {
		return err
	}
	old := s.composer
	s.composer = c
	s.annotations = annotations
	if old != nil {
		old.Close()
		c.SetSeries(s.series)
		if s.chartW > 0 {
			c.Resize(float64(s.chartW), float64(s.chartH))
		}
	}
	return nil
}

// redrawChart renders the current model into the image canvas. Must run on
// the UI goroutine.
func redrawChart(s *uiState) {
	m := s.composer.Model()
	img, err := chart.RenderImage(m)
	if err != nil {
		logger.Errorf("render: %v", err)
		return
	}
	s.imgCanvas.Image = img
	s.imgCanvas.Refresh()
	s.status.SetText(statusText(m))
}

// statusText summarizes the hover state for the status bar.
func statusText(m chart.RenderModel) string {
	switch {
	case m.Empty:
		return m.Message
	case m.Hover == nil:
		return ""
	case m.Hover.Annotation != nil:
		w := m.Hover.Annotation.Window
		return fmt.Sprintf("%s  %s", w.Start.Format("2006-01-02"), w.Content)
	default:
		return m.Hover.Time.Format("2006-01-02 15:04")
	}
}

func applyColumnWidths(s *uiState) {
	if s.table == nil || s.window.Canvas() == nil {
		return
	}
	widths := uihelpers.ComputeTableColumnWidths(s.window.Canvas().Size().Width)
	for i, wd := range widths {
		s.table.SetColumnWidth(i, float32(wd))
	}
}

// file open dialog
func openFileDialog(s *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		s.cfg.DataFile = rc.URI().Path()
		loadAll(s)
	}, s.window)
	d.Show()
}

func openAnnotationsDialog(s *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		ann, err := dataset.LoadAnnotations(rc.URI().Path())
		if err == nil {
			err = s.newComposer(ann)
		}
		if err != nil {
			dialog.ShowError(err, s.window)
			return
		}
		s.cfg.AnnotationsFile = rc.URI().Path()
		redrawChart(s)
	}, s.window)
	d.Show()
}

// setSeries stores the loaded series and their table rows.
func (s *uiState) setSeries(series []types.Series) {
	s.series = series
	s.rows = seriesRows(series)
}

// tableCell returns the text of a series table cell.
func (s *uiState) tableCell(row, col int) string {
	if row < 0 || row >= len(s.rows) {
		return ""
	}
	return s.rows[row].cell(col)
}

// loadAll reads the configured inputs and hands them to the composer.
func loadAll(s *uiState) {
	ds, ann, err := s.cfg.LoadInputs()
	if err != nil {
		logger.Errorf("load: %v", err)
		dialog.ShowError(err, s.window)
		return
	}
	s.fileLabel.SetText(filepath.Base(s.cfg.DataFile))
	s.setSeries(ds.Series)
	s.domain = ds.Domain
	if err := s.newComposer(ann); err != nil {
		dialog.ShowError(err, s.window)
		return
	}
	s.table.Refresh()
	logger.Infof("loaded %s: %d series", s.cfg.DataFile, len(s.series))
}
