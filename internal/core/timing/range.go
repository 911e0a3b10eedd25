package timing

import "math"

// MinDuration is the shortest range Clamp will produce, in seconds. A
// zero-length overlay is meaningless, so degenerate input is stretched to it.
const MinDuration = 0.5

// Range is a [Start, End) interval in seconds.
type Range struct {
	Start float64 `json:"startTime" yaml:"startTime"`
	End   float64 `json:"endTime" yaml:"endTime"`
}

// Clamp returns a well-formed range within [0, maxDuration] using MinDuration
// as the minimum length. A maxDuration <= 0 means the duration is unknown and
// only the lower bound is enforced.
func Clamp(start, end, maxDuration float64) Range {
	return ClampWith(start, end, maxDuration, MinDuration)
}

// ClampWith is Clamp with an explicit minimum length. A non-positive
// minDuration falls back to MinDuration.
func ClampWith(start, end, maxDuration, minDuration float64) Range {
	if !(minDuration > 0) || math.IsInf(minDuration, 0) {
		minDuration = MinDuration
	}
	start = math.Max(0, finite(start))
	end = finite(end)

	if !bounded(maxDuration) {
		return nonEmpty(Range{Start: start, End: math.Max(end, start+minDuration)}, math.MaxFloat64)
	}
	if maxDuration < minDuration {
		return Range{Start: 0, End: maxDuration}
	}

	start = math.Min(start, maxDuration-minDuration)
	end = math.Min(maxDuration, math.Max(end, start+minDuration))
	return nonEmpty(Range{Start: start, End: end}, maxDuration)
}

// nonEmpty keeps End > Start when the minimum length was lost to rounding at
// large magnitudes, without moving End past limit.
func nonEmpty(r Range, limit float64) Range {
	r.End = math.Min(r.End, limit)
	if r.End > r.Start {
		return r
	}
	if end := math.Nextafter(r.Start, math.Inf(1)); end <= limit {
		r.End = end
		return r
	}
	return Range{Start: math.Nextafter(limit, 0), End: limit}
}

// DurationOf returns end - start.
func DurationOf(r Range) float64 {
	return r.End - r.Start
}

// Duration returns the length of the range in seconds.
func (r Range) Duration() float64 {
	return DurationOf(r)
}

// Valid reports whether End > Start and both bounds are non-negative.
func (r Range) Valid() bool {
	return r.Start >= 0 && r.End > r.Start
}

// Contains reports whether t falls inside [Start, End).
func (r Range) Contains(t float64) bool {
	return t >= r.Start && t < r.End
}

// Overlaps reports whether the two half-open ranges share any instant.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

// Shift moves the range by delta seconds without changing its length.
func (r Range) Shift(delta float64) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

func bounded(maxDuration float64) bool {
	return maxDuration > 0 && !math.IsInf(maxDuration, 0)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
