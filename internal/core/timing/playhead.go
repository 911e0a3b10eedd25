package timing

// Playhead carries the values the external player supplies on every mutating
// call: the total video duration and the current playhead position.
type Playhead struct {
	Duration float64 `json:"videoDuration"`
	Time     float64 `json:"currentTime"`
}

// At returns a copy of p with the playhead moved to t.
func (p Playhead) At(t float64) Playhead {
	p.Time = t
	return p
}

// Clamp is Clamp(start, end, p.Duration).
func (p Playhead) Clamp(start, end float64) Range {
	return Clamp(start, end, p.Duration)
}

// ClampWith is ClampWith(start, end, p.Duration, minDuration).
func (p Playhead) ClampWith(start, end, minDuration float64) Range {
	return ClampWith(start, end, p.Duration, minDuration)
}
