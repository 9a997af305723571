package chart

import (
	"math"
	"time"
)

// TimeStep is an x-axis tick interval. Months > 0 steps by calendar months
// and ignores Duration.
type TimeStep struct {
	Duration time.Duration
	Months   int
	Layout   string
}

// minLength is the shortest interval the step can cover. Calendar months
// count as 28 days so tick counts are never underestimated.
func (s TimeStep) minLength() time.Duration {
	if s.Months > 0 {
		return time.Duration(s.Months) * 28 * 24 * time.Hour
	}
	return s.Duration
}

const oneDay = 24 * time.Hour

// timeSteps is ordered from finest to coarsest.
var timeSteps = []TimeStep{
	{Duration: 10 * time.Second, Layout: "15:04:05"},
	{Duration: 30 * time.Second, Layout: "15:04:05"},
	{Duration: time.Minute, Layout: "15:04"},
	{Duration: 5 * time.Minute, Layout: "15:04"},
	{Duration: 10 * time.Minute, Layout: "15:04"},
	{Duration: 15 * time.Minute, Layout: "15:04"},
	{Duration: 30 * time.Minute, Layout: "Jan 2 15:04"},
	{Duration: time.Hour, Layout: "Jan 2 15:04"},
	{Duration: 3 * time.Hour, Layout: "Jan 2 15:04"},
	{Duration: 6 * time.Hour, Layout: "Jan 2 15:04"},
	{Duration: 12 * time.Hour, Layout: "Jan 2 15:04"},
	{Duration: oneDay, Layout: "Jan 2"},
	{Duration: 2 * oneDay, Layout: "Jan 2"},
	{Duration: 7 * oneDay, Layout: "Jan 2"},
	{Months: 1, Layout: "Jan 2006"},
	{Months: 3, Layout: "Jan 2006"},
	{Months: 6, Layout: "Jan 2006"},
	{Months: 12, Layout: "2006"},
	{Months: 24, Layout: "2006"},
	{Months: 60, Layout: "2006"},
	{Months: 120, Layout: "2006"},
	{Months: 240, Layout: "2006"},
	{Months: 600, Layout: "2006"},
	{Months: 1200, Layout: "2006"},
}

// Label sizing at the renderer's font size. charWidth is an upper bound for
// the digits and short month names the layouts produce.
const (
	charWidth = 7.0
	labelGap  = 16.0
)

// estimateLabelWidth is the pixel width reserved for one x label.
func estimateLabelWidth(layout string) float64 {
	return float64(len(layout)) * charWidth
}

// PickTimeStep selects the finest step whose labels fit side by side across
// width pixels for the given span. Spans too long for any step get the
// coarsest one.
func PickTimeStep(span time.Duration, width float64) TimeStep {
	if span <= 0 {
		return timeSteps[0]
	}
	for _, st := range timeSteps {
		fit := math.Floor(width / (estimateLabelWidth(st.Layout) + labelGap))
		n := math.Floor(float64(span)/float64(st.minLength())) + 1
		if n <= math.Max(fit, 2) {
			return st
		}
	}
	return timeSteps[len(timeSteps)-1]
}

// maxTimeTicks bounds a step far too fine for the span.
const maxTimeTicks = 10000

// TimeTicks returns step-aligned instants within [minT,maxT] (UTC aligned to
// avoid DST anomalies). Month steps start on month indices divisible by the
// step, so quarterly ticks fall on Jan/Apr/Jul/Oct and yearly ticks on Jan 1.
func TimeTicks(minT, maxT time.Time, step TimeStep) []time.Time {
	minT, maxT = minT.UTC(), maxT.UTC()
	var ticks []time.Time
	if step.Months > 0 {
		mi := minT.Year()*12 + int(minT.Month()) - 1
		if monthStart(mi).Before(minT) {
			mi++
		}
		if r := mi % step.Months; r != 0 {
			mi += step.Months - r
		}
		for t := monthStart(mi); !t.After(maxT) && len(ticks) < maxTimeTicks; {
			ticks = append(ticks, t)
			mi += step.Months
			t = monthStart(mi)
		}
		return ticks
	}
	st := int64(step.Duration / time.Second)
	if st <= 0 {
		return nil
	}
	s := minT.Unix()
	aligned := time.Unix((s/st)*st, 0).UTC()
	if aligned.Before(minT) {
		aligned = aligned.Add(step.Duration)
	}
	for t := aligned; !t.After(maxT) && len(ticks) < maxTimeTicks; t = t.Add(step.Duration) {
		ticks = append(ticks, t)
	}
	return ticks
}

func monthStart(mi int) time.Time {
	return time.Date(mi/12, time.Month(mi%12+1), 1, 0, 0, 0, 0, time.UTC)
}
