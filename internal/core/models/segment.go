package models

import "math"

const (
	MinPlaybackSpeed = 0.1
	MaxPlaybackSpeed = 16.0
)

// Segment is a clip instance on the timeline, not the source asset.
type Segment struct {
	Base
	Type      SegmentType `json:"type"`
	SourceURL string      `json:"sourceUrl,omitempty"`
	// SourceStart and SourceEnd trim the source media, in source seconds.
	SourceStart   float64 `json:"sourceStart"`
	SourceEnd     float64 `json:"sourceEnd"`
	PlaybackSpeed float64 `json:"playbackSpeed"`
	// A zero ramp bound means no ramp.
	SpeedRampStart     float64        `json:"speedRampStart,omitempty"`
	SpeedRampEnd       float64        `json:"speedRampEnd,omitempty"`
	TransitionOut      TransitionKind `json:"transitionOut"`
	TransitionDuration float64        `json:"transitionDuration"`
	Text               string         `json:"text,omitempty"`
}

// NewSegment returns a segment of the given type with playback defaults.
func NewSegment(t SegmentType, sourceURL string) Segment {
	return Segment{
		Type:          t,
		SourceURL:     sourceURL,
		PlaybackSpeed: 1,
		TransitionOut: TransitionNone,
	}
}

func (Segment) Kind() Kind { return KindSegment }

func (s *Segment) Normalize() {
	s.Type = orDefault(s.Type, SegmentVideo)
	s.TransitionOut = orDefault(s.TransitionOut, TransitionNone)

	if !(s.PlaybackSpeed > 0) {
		s.PlaybackSpeed = 1
	}
	s.PlaybackSpeed = clampf(s.PlaybackSpeed, MinPlaybackSpeed, MaxPlaybackSpeed)
	if s.SpeedRampStart != 0 {
		s.SpeedRampStart = clampf(s.SpeedRampStart, MinPlaybackSpeed, MaxPlaybackSpeed)
	}
	if s.SpeedRampEnd != 0 {
		s.SpeedRampEnd = clampf(s.SpeedRampEnd, MinPlaybackSpeed, MaxPlaybackSpeed)
	}

	s.SourceStart = math.Max(0, finiteOr(s.SourceStart, 0))
	if !(s.SourceEnd > s.SourceStart) {
		s.SourceEnd = s.SourceStart + s.Duration()*s.PlaybackSpeed
	}

	if s.TransitionOut == TransitionNone {
		s.TransitionDuration = 0
	}
	s.TransitionDuration = clampf(s.TransitionDuration, 0, math.Max(0, s.Duration()))
}

// SourceAt maps a timeline time inside the segment to a source time.
func (s Segment) SourceAt(t float64) float64 {
	return s.SourceStart + (t-s.StartTime)*s.PlaybackSpeed
}

func clampf(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
