// Package types holds the data model shared by the chart engine, the dataset
// loaders and the command line tools.
package types

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DataPoint is one sample of a series. A zero X or a non-finite Y marks the
// point as missing; it is excluded from geometry but still breaks a run.
type DataPoint struct {
	X     time.Time      `json:"x"`
	Y     float64        `json:"y"`
	Extra map[string]any `json:"extra,omitempty"`
}

// Valid reports whether the point has a usable timestamp and value.
func (p DataPoint) Valid() bool {
	return !p.X.IsZero() && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Series is one named line. Points are expected in ascending time order.
type Series struct {
	Key    string      `json:"key"`
	Name   string      `json:"name"`
	Color  string      `json:"color"` // hex, e.g. "#1f77b4"
	Points []DataPoint `json:"points"`
}

// DisplayName falls back to the key when no name was supplied.
func (s Series) DisplayName() string {
	if strings.TrimSpace(s.Name) != "" {
		return s.Name
	}
	return s.Key
}

// ValidRange returns the min and max timestamp over the valid points.
// ok is false when the series has no valid point.
func (s Series) ValidRange() (min, max time.Time, ok bool) {
	for _, p := range s.Points {
		if !p.Valid() {
			continue
		}
		if !ok {
			min, max, ok = p.X, p.X, true
			continue
		}
		if p.X.Before(min) {
			min = p.X
		}
		if p.X.After(max) {
			max = p.X
		}
	}
	return
}

// Domain is an explicit y-axis value range supplied by the caller.
type Domain struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Valid reports whether the domain is finite and non-empty.
func (d Domain) Valid() bool {
	if math.IsNaN(d.Min) || math.IsNaN(d.Max) || math.IsInf(d.Min, 0) || math.IsInf(d.Max, 0) {
		return false
	}
	return d.Max > d.Min
}

// Annotation is the content attached to a window start date.
// NextDate, when set, bounds the highlight of an otherwise open-ended window.
type Annotation struct {
	Content  string                     `json:"content" yaml:"content"`
	NextDate func(time.Time) time.Time `json:"-" yaml:"-"`
}

var ErrBadTime = errors.New("unparseable time")

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime accepts plain dates and RFC3339 timestamps. Values without a zone are UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrBadTime)
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadTime, s)
}
