package chart

import (
	"time"

	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

// ResolveMarkers returns the indices of points that get a marker dot: every
// valid point except the first one of each continuous run, whose position is
// already drawn as the start of the line segment. An invalid point ends the
// current run. A non-zero clip excludes points strictly after it.
func ResolveMarkers(points []types.DataPoint, clip time.Time) []int {
	var out []int
	inRun := false
	for i, p := range points {
		if !p.Valid() {
			inRun = false
			continue
		}
		if !clip.IsZero() && p.X.After(clip) {
			continue
		}
		if !inRun {
			inRun = true
			continue
		}
		out = append(out, i)
	}
	return out
}

// Segments splits points into maximal runs of valid points, returned as index
// slices. Runs of a single point are kept so isolated samples still render.
func Segments(points []types.DataPoint, clip time.Time) [][]int {
	var out [][]int
	var cur []int
	for i, p := range points {
		if !p.Valid() {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		if !clip.IsZero() && p.X.After(clip) {
			continue
		}
		cur = append(cur, i)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
