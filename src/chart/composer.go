package chart

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/PresageLabs/PrediBench-sub001/src/logging"
	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

var logger = logging.New("composer")

// DefaultNarrowWidth is the container width below which the layout is
// treated as narrow (mobile).
const DefaultNarrowWidth = 640

// Options configures a Composer.
type Options struct {
	Domain      *types.Domain
	TickRange   TickRange
	Annotations map[string]types.Annotation
	Theme       Theme
	Margins     Margins
	Format      Formatter
	NarrowWidth float64
	MinWidth    float64
	// OnChange is called, from any goroutine, after the render model changed.
	OnChange func()
	// QueueOptions are passed to the pointer queue.
	QueueOptions []QueueOption
}

type scaleKey struct {
	version       uint64
	hasDomain     bool
	domain        types.Domain
	width, height float64
	ticks         TickRange
}

// Composer owns the hover state and dimensions of one chart instance and
// produces its RenderModel.
type Composer struct {
	mu          sync.Mutex
	opts        Options
	theme       Theme
	annotations *AnnotationSet
	series      []types.Series
	version     uint64
	domain      *types.Domain
	width       float64
	height      float64
	hover       *HoverState
	scale       *Scale
	scaleErr    error
	cache       *lru.Cache
	queue       *PointerQueue
	closed      bool
	callbacks   atomic.Int32 // OnChange calls in progress
}

// NewComposer validates the annotation mapping once and returns a composer.
// An empty theme falls back to LightTheme.
func NewComposer(opts Options) (*Composer, error) {
	set, err := NewAnnotationSet(opts.Annotations)
	if err != nil {
		return nil, err
	}
	cache, err := lru.New(16)
	if err != nil {
		return nil, err
	}
	if opts.NarrowWidth <= 0 {
		opts.NarrowWidth = DefaultNarrowWidth
	}
	if opts.Format == nil {
		opts.Format = FormatValue
	}
	c := &Composer{opts: opts, theme: opts.Theme, annotations: set, domain: opts.Domain, cache: cache, scaleErr: ErrNotMeasured}
	if c.theme.Name == "" {
		c.theme = LightTheme()
	}
	c.queue = NewPointerQueue(c.handleSample, opts.QueueOptions...)
	return c, nil
}

// SetSeries replaces the chart data. The slice is not modified.
func (c *Composer) SetSeries(series []types.Series) {
	c.mu.Lock()
	c.series = series
	c.version++
	c.hover = nil
	c.recomputeLocked()
	c.mu.Unlock()
	c.notify()
}

// SetDomain sets or (with nil) clears the explicit y domain.
func (c *Composer) SetDomain(d *types.Domain) {
	c.mu.Lock()
	c.domain = d
	c.hover = nil
	c.recomputeLocked()
	c.mu.Unlock()
	c.notify()
}

// SetTheme swaps the colours used by the next render.
func (c *Composer) SetTheme(t Theme) {
	c.mu.Lock()
	c.theme = t
	c.mu.Unlock()
	c.notify()
}

// Resize records new container dimensions. Repeated calls are harmless; the
// last one wins.
func (c *Composer) Resize(width, height float64) {
	c.mu.Lock()
	if width == c.width && height == c.height {
		c.mu.Unlock()
		return
	}
	c.width, c.height = width, height
	c.hover = nil
	c.recomputeLocked()
	c.mu.Unlock()
	c.notify()
}

// Narrow reports whether the current layout is narrow.
func (c *Composer) Narrow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.narrowLocked()
}

func (c *Composer) narrowLocked() bool { return c.width < c.opts.NarrowWidth }

// ChartHeight is the plot area height: narrow layouts with annotations
// reserve room for the annotation box below the chart.
func (c *Composer) ChartHeight() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chartHeightLocked()
}

func (c *Composer) chartHeightLocked() float64 {
	return ChartHeight(c.height, c.narrowLocked(), c.annotations.Len() > 0)
}

// ChartHeight derives the plot height from the container height.
func ChartHeight(containerHeight float64, narrow, annotations bool) float64 {
	if !narrow || !annotations {
		return containerHeight
	}
	return containerHeight - math.Min(containerHeight*0.35, 160)
}

func (c *Composer) recomputeLocked() {
	h := c.chartHeightLocked()
	key := scaleKey{version: c.version, width: c.width, height: h, ticks: c.opts.TickRange}
	if c.domain != nil {
		key.hasDomain, key.domain = true, *c.domain
	}
	if v, ok := c.cache.Get(key); ok {
		c.scale, c.scaleErr = v.(*Scale), nil
		return
	}
	start := time.Now()
	sc, err := ComputeScale(c.series, ScaleOptions{
		Domain:    c.domain,
		TickRange: c.opts.TickRange,
		Width:     c.width,
		Height:    h,
		Margins:   c.opts.Margins,
		MinWidth:  c.opts.MinWidth,
	})
	c.scale, c.scaleErr = sc, err
	if err != nil {
		if !errors.Is(err, ErrNotMeasured) {
			logger.Debugf("scale: %v", err)
		}
		return
	}
	c.cache.Add(key, sc)
	logger.TimeTrack(start, "scale")
	logger.Debugf("scale w=%.0f h=%.0f step=%g ticks=%v", c.width, h, sc.Step, sc.Ticks)
}

// Scale returns the current scale or the reason there is none.
func (c *Composer) Scale() (*Scale, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scale, c.scaleErr
}

// PointerMove queues a pointer position for hover resolution.
func (c *Composer) PointerMove(xPixel float64) {
	c.queue.Push(xPixel)
}

// PointerLeave clears the hover immediately and drops queued samples.
func (c *Composer) PointerLeave() {
	c.queue.Drop()
	c.mu.Lock()
	had := c.hover != nil
	c.hover = nil
	c.mu.Unlock()
	if had {
		c.notify()
	}
}

func (c *Composer) handleSample(s PointerSample) {
	c.mu.Lock()
	sc, series := c.scale, c.series
	opts := HoverOptions{Annotations: c.annotations, Format: c.opts.Format, Narrow: c.narrowLocked()}
	c.mu.Unlock()

	hs := ResolveHover(s.XPixel, sc, series, opts)

	c.mu.Lock()
	// a leave or a rescale since the push makes the result stale
	if c.closed || !c.queue.Current(s) || c.scale != sc {
		c.mu.Unlock()
		return
	}
	c.hover = hs
	c.mu.Unlock()
	c.notify()
}

// Hover returns the current hover state, nil when inactive.
func (c *Composer) Hover() *HoverState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hover
}

// Wait blocks until queued pointer samples have been processed. It must not
// be called from OnChange.
func (c *Composer) Wait() { c.queue.Wait() }

// Close stops pointer processing. The composer must not be used afterwards.
// Close may be called from OnChange; it then returns without waiting for the
// running callback.
func (c *Composer) Close() {
	c.mu.Lock()
	c.closed = true
	c.hover = nil
	c.mu.Unlock()
	c.queue.Close()
	if c.callbacks.Load() == 0 {
		c.queue.Wait()
	}
}

func (c *Composer) notify() {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if !closed && c.opts.OnChange != nil {
		c.callbacks.Add(1)
		defer c.callbacks.Add(-1)
		c.opts.OnChange()
	}
}

// Model builds the render model for the current state.
func (c *Composer) Model() RenderModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return BuildModel(ModelInput{
		Series:      c.series,
		Scale:       c.scale,
		ScaleErr:    c.scaleErr,
		Hover:       c.hover,
		Theme:       c.theme,
		Width:       c.width,
		Height:      c.height,
		ChartHeight: c.chartHeightLocked(),
		Narrow:      c.narrowLocked(),
		Annotations: c.annotations,
	})
}
