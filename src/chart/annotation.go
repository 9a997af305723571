package chart

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

// ErrAnnotationKey reports an annotation key that is not a date or collides
// with another key.
var ErrAnnotationKey = errors.New("chart: invalid annotation key")

// AnnotationWindow is the half-open interval [Start, End) owned by one
// annotation. The last window is open-ended (Open is true, End is zero).
type AnnotationWindow struct {
	Key     string
	Start   time.Time
	End     time.Time
	Open    bool
	Content string

	nextDate func(time.Time) time.Time
}

// Contains reports whether t falls in the window.
func (w AnnotationWindow) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	return w.Open || t.Before(w.End)
}

// AnnotationSet partitions the time axis from its first key onwards.
type AnnotationSet struct {
	windows []AnnotationWindow
}

// NewAnnotationSet sorts the mapping keys and derives the windows. Keys that
// do not parse as dates, or that name the same instant, are rejected.
func NewAnnotationSet(entries map[string]types.Annotation) (*AnnotationSet, error) {
	type keyed struct {
		key string
		at  time.Time
		a   types.Annotation
	}
	list := make([]keyed, 0, len(entries))
	for k, a := range entries {
		t, err := types.ParseTime(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrAnnotationKey, k, err)
		}
		list = append(list, keyed{key: k, at: t, a: a})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].at.Equal(list[j].at) {
			return list[i].key < list[j].key
		}
		return list[i].at.Before(list[j].at)
	})
	set := &AnnotationSet{windows: make([]AnnotationWindow, len(list))}
	for i, e := range list {
		if i > 0 && e.at.Equal(list[i-1].at) {
			return nil, fmt.Errorf("%w: %q and %q are the same date", ErrAnnotationKey, list[i-1].key, e.key)
		}
		w := AnnotationWindow{Key: e.key, Start: e.at, Content: e.a.Content, nextDate: e.a.NextDate}
		if i+1 < len(list) {
			w.End = list[i+1].at
		} else {
			w.Open = true
		}
		set.windows[i] = w
	}
	return set, nil
}

// Len returns the number of windows.
func (a *AnnotationSet) Len() int {
	if a == nil {
		return 0
	}
	return len(a.windows)
}

// Windows returns the windows in ascending order.
func (a *AnnotationSet) Windows() []AnnotationWindow {
	if a == nil {
		return nil
	}
	return append([]AnnotationWindow(nil), a.windows...)
}

// Match returns the window containing t and its index. Timestamps before the
// first key, zero times and empty sets match nothing.
func (a *AnnotationSet) Match(t time.Time) (AnnotationWindow, int, bool) {
	if a.Len() == 0 || t.IsZero() {
		return AnnotationWindow{}, -1, false
	}
	// first window whose start is after t, then step back one
	i := sort.Search(len(a.windows), func(i int) bool { return a.windows[i].Start.After(t) }) - 1
	if i < 0 || !a.windows[i].Contains(t) {
		return AnnotationWindow{}, -1, false
	}
	return a.windows[i], i, true
}

// AnnotationHover is the overlay geometry for a matched window.
type AnnotationHover struct {
	Window   AnnotationWindow
	Index    int
	X0, X1   float64 // highlight span in pixels
	ContentX float64 // horizontal center of the content block
}

// Highlight computes the pixel span of w clamped to the plot. Open-ended
// windows run to the plot's right edge unless the annotation supplied a
// NextDate later than the window start. In narrow layouts the content is centered on the plot instead
// of the span.
func Highlight(w AnnotationWindow, sc *Scale, narrow bool) (x0, x1, contentX float64) {
	left, right := sc.PlotLeft(), sc.PlotRight()
	x0 = sc.X(w.Start)
	switch {
	case !w.Open:
		x1 = sc.X(w.End)
	case w.nextDate != nil && w.nextDate(w.Start).After(w.Start):
		x1 = sc.X(w.nextDate(w.Start))
	default:
		x1 = right
	}
	if !finite(x1) {
		x1 = right
	}
	x0 = math.Max(left, math.Min(right, x0))
	x1 = math.Max(left, math.Min(right, x1))
	x1 = math.Max(x1, x0)
	contentX = (x0 + x1) / 2
	if narrow {
		contentX = (left + right) / 2
	}
	return x0, x1, contentX
}
