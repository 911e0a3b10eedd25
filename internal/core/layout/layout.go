// Package layout maps design-time positions onto the active output layout.
//
// Positions are percentages of the frame (0-100). Placement is a snapshot:
// RemapY runs once when an entity is created, and changing the layout later
// never moves existing entities.
package layout

import (
	"math"
	"strings"
)

// Layout is the canvas aspect-ratio preset selected in the editor.
type Layout string

const (
	Auto      Layout = "auto"
	Standard  Layout = "standard"
	Square    Layout = "square"
	Vertical  Layout = "vertical"
	Portrait  Layout = "portrait"
	Cinematic Layout = "cinematic"
	Classic   Layout = "classic"
)

// Reserved band for tall layouts. Platforms overlay captions and controls on
// the bottom of vertical video, so authored positions are compressed into it.
const (
	tallShift = 4.0
	tallMinY  = 10.0
	tallMaxY  = 90.0
)

var all = []Layout{Auto, Standard, Square, Vertical, Portrait, Cinematic, Classic}

var aspectRatios = map[Layout]float64{
	Standard:  16.0 / 9.0,
	Square:    1,
	Vertical:  9.0 / 16.0,
	Portrait:  4.0 / 5.0,
	Cinematic: 21.0 / 9.0,
	Classic:   4.0 / 3.0,
}

// All returns every known layout in display order.
func All() []Layout {
	out := make([]Layout, len(all))
	copy(out, all)
	return out
}

// Parse resolves a layout name case-insensitively. Unknown names report false.
func Parse(s string) (Layout, bool) {
	l := Layout(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Valid()
}

// Valid reports whether l is one of the known layouts.
func (l Layout) Valid() bool {
	for _, known := range all {
		if l == known {
			return true
		}
	}
	return false
}

// Or returns l when it is valid and fallback otherwise.
func (l Layout) Or(fallback Layout) Layout {
	if l.Valid() {
		return l
	}
	return fallback
}

// IsTall reports whether the layout reserves a bottom zone for platform UI.
func (l Layout) IsTall() bool {
	return l == Vertical || l == Portrait
}

// AspectRatio returns width/height. Auto follows the source and reports 0.
func (l Layout) AspectRatio() float64 {
	return aspectRatios[l]
}

func (l Layout) String() string {
	return string(l)
}

// RemapY converts an authored vertical position to the given layout. Tall
// layouts shift the position up and clamp it into [10, 90]; every other
// layout returns y unchanged.
func RemapY(y float64, l Layout) float64 {
	if !l.IsTall() {
		return y
	}
	return clamp(y-tallShift, tallMinY, tallMaxY)
}

// ClampPercent clamps a position or size into [0, 100]. NaN becomes 0.
func ClampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, 0, 100)
}

// ClampUnit clamps an opacity-like value into [0, 1]. NaN becomes 0.
func ClampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
