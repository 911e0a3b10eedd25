// Package timing holds the time-range primitives shared by every timed entity
// on the timeline.
//
// Ranges are half-open [start, end) intervals in seconds. Clamp coerces any
// input into a well-formed range inside the video duration instead of
// rejecting it: a degenerate range is stretched to MinDuration and a range
// that starts at (or past) the end of the video is pulled back so it still
// fits. Nothing in this package returns an error.
package timing
