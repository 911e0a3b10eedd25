package templates

import (
	"github.com/zeusync/timeline/internal/core/models"
)

// ElementKind selects which config of an Element is populated.
type ElementKind string

const (
	ElementText  ElementKind = "text"
	ElementShape ElementKind = "shape"
)

// Template is a named bundle of overlay configs.
type Template struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Category    string    `json:"category,omitempty" yaml:"category,omitempty"`
	Elements    []Element `json:"elements" yaml:"elements"`
}

// Element is one overlay of a template. Exactly one of Text or Shape is set,
// matching Kind.
type Element struct {
	Kind  ElementKind  `json:"kind" yaml:"kind"`
	Text  *TextConfig  `json:"text,omitempty" yaml:"text,omitempty"`
	Shape *ShapeConfig `json:"shape,omitempty" yaml:"shape,omitempty"`
}

// Timing places an element relative to the anchor. Nil means absent, which
// is not the same as zero: a nil Duration falls back to the request default.
type Timing struct {
	StartOffset *float64 `json:"startOffset,omitempty" yaml:"startOffset,omitempty"`
	Duration    *float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
	Layer       int      `json:"layer,omitempty" yaml:"layer,omitempty"`
}

type TextConfig struct {
	Timing       `yaml:",inline"`
	Text         string           `json:"text" yaml:"text"`
	X            *float64         `json:"x,omitempty" yaml:"x,omitempty"`
	Y            *float64         `json:"y,omitempty" yaml:"y,omitempty"`
	FontSize     float64          `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	Color        string           `json:"color,omitempty" yaml:"color,omitempty"`
	FontFamily   string           `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	Style        models.TextStyle `json:"style,omitempty" yaml:"style,omitempty"`
	AnimationIn  models.Animation `json:"animationIn,omitempty" yaml:"animationIn,omitempty"`
	AnimationOut models.Animation `json:"animationOut,omitempty" yaml:"animationOut,omitempty"`
}

type ShapeConfig struct {
	Timing      `yaml:",inline"`
	Kind        models.ShapeKind `json:"kind" yaml:"kind"`
	X           *float64         `json:"x,omitempty" yaml:"x,omitempty"`
	Y           *float64         `json:"y,omitempty" yaml:"y,omitempty"`
	Width       float64          `json:"width,omitempty" yaml:"width,omitempty"`
	Height      float64          `json:"height,omitempty" yaml:"height,omitempty"`
	Color       string           `json:"color,omitempty" yaml:"color,omitempty"`
	Opacity     *float64         `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	StrokeWidth float64          `json:"strokeWidth,omitempty" yaml:"strokeWidth,omitempty"`
}

func (e Element) timing() (Timing, bool) {
	switch {
	case e.Kind == ElementText && e.Text != nil:
		return e.Text.Timing, true
	case e.Kind == ElementShape && e.Shape != nil:
		return e.Shape.Timing, true
	}
	return Timing{}, false
}

// Float returns a pointer to v, for building configs in code.
func Float(v float64) *float64 { return &v }
