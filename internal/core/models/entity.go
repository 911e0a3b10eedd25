package models

import (
	"slices"

	"github.com/zeusync/timeline/internal/core/timing"
)

// ID identifies an entity within its collection. IDs are opaque and never
// reused.
type ID string

func (id ID) String() string { return string(id) }

// Kind names an entity collection.
type Kind string

const (
	KindSegment  Kind = "segment"
	KindText     Kind = "text"
	KindShape    Kind = "shape"
	KindImage    Kind = "image"
	KindGradient Kind = "gradient"
	KindEffect   Kind = "effect"
)

// Kinds lists every collection kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindSegment, KindText, KindShape, KindImage, KindGradient, KindEffect}
}

// Base holds the fields shared by every timed entity.
type Base struct {
	ID        ID      `json:"id"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Track     int     `json:"track"`
	// Layer only affects paint order; higher paints later.
	Layer int `json:"layer"`
	// Seq is the composition-wide insertion sequence used to break layer ties.
	Seq uint64 `json:"seq"`
}

// Meta returns the shared fields for in-place edits.
func (b *Base) Meta() *Base { return b }

// Range returns the entity's time range.
func (b Base) Range() timing.Range {
	return timing.Range{Start: b.StartTime, End: b.EndTime}
}

// SetRange replaces the entity's time range.
func (b *Base) SetRange(r timing.Range) {
	b.StartTime = r.Start
	b.EndTime = r.End
}

// Duration returns EndTime - StartTime.
func (b Base) Duration() float64 {
	return b.EndTime - b.StartTime
}

// ActiveAt reports whether the entity is on screen at t.
func (b Base) ActiveAt(t float64) bool {
	return b.Range().Contains(t)
}

// Entity is implemented by pointers to every timeline record.
type Entity interface {
	Meta() *Base
	Kind() Kind
	// Normalize coerces attribute values into their valid domains. It never
	// touches the time range or the vertical placement.
	Normalize()
}

// Placed is implemented by entities positioned on the frame. The returned
// pointer is the vertical position in percent, remapped once at creation.
type Placed interface {
	VerticalPosition() *float64
}

// Clone returns an independent copy of a collection. Records hold no shared
// references, so a slice copy is a deep copy.
func Clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	return slices.Clone(items)
}
