package models

import "github.com/zeusync/timeline/internal/core/layout"

const (
	DefaultFontSize   = 48.0
	DefaultFontFamily = "Inter"
	DefaultTextColor  = "#FFFFFF"
	MaxFontSize       = 400.0
	// DefaultAnimationDuration applies when an animation is set without a length.
	DefaultAnimationDuration = 0.5
)

// TextOverlay is a text element drawn over the video.
type TextOverlay struct {
	Base
	Text                 string    `json:"text"`
	X                    float64   `json:"x"`
	Y                    float64   `json:"y"`
	FontSize             float64   `json:"fontSize"`
	Color                string    `json:"color"`
	FontFamily           string    `json:"fontFamily"`
	Style                TextStyle `json:"style"`
	AnimationIn          Animation `json:"animationIn"`
	AnimationOut         Animation `json:"animationOut"`
	AnimationInDuration  float64   `json:"animationInDuration"`
	AnimationOutDuration float64   `json:"animationOutDuration"`
	// MotionGraphic is the template id this overlay was expanded from, if any.
	MotionGraphic string `json:"motionGraphic,omitempty"`
}

// NewTextOverlay returns a centred text overlay with the default look.
func NewTextOverlay(text string) TextOverlay {
	return TextOverlay{
		Text:         text,
		X:            50,
		Y:            50,
		FontSize:     DefaultFontSize,
		Color:        DefaultTextColor,
		FontFamily:   DefaultFontFamily,
		Style:        TextPlain,
		AnimationIn:  AnimationNone,
		AnimationOut: AnimationNone,
	}
}

func (TextOverlay) Kind() Kind { return KindText }

func (o *TextOverlay) VerticalPosition() *float64 { return &o.Y }

func (o *TextOverlay) Normalize() {
	o.X = layout.ClampPercent(o.X)
	o.Y = layout.ClampPercent(o.Y)
	if !(o.FontSize > 0) {
		o.FontSize = DefaultFontSize
	}
	o.FontSize = clampf(o.FontSize, 1, MaxFontSize)
	if o.Color == "" {
		o.Color = DefaultTextColor
	}
	if o.FontFamily == "" {
		o.FontFamily = DefaultFontFamily
	}
	o.Style = orDefault(o.Style, TextPlain)
	o.AnimationIn, o.AnimationInDuration = normalizeAnimation(o.AnimationIn, o.AnimationInDuration, o.Duration())
	o.AnimationOut, o.AnimationOutDuration = normalizeAnimation(o.AnimationOut, o.AnimationOutDuration, o.Duration())
}

// ShapeOverlay is a rectangle, circle or line drawn over the video.
type ShapeOverlay struct {
	Base
	Shape         ShapeKind `json:"kind"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	Width         float64   `json:"width"`
	Height        float64   `json:"height"`
	Color         string    `json:"color"`
	Opacity       float64   `json:"opacity"`
	StrokeWidth   float64   `json:"strokeWidth"`
	MotionGraphic string    `json:"motionGraphic,omitempty"`
}

// NewShapeOverlay returns an opaque shape of the given geometry.
func NewShapeOverlay(kind ShapeKind) ShapeOverlay {
	return ShapeOverlay{
		Shape:   kind,
		X:       50,
		Y:       50,
		Width:   20,
		Height:  20,
		Color:   "#000000",
		Opacity: 1,
	}
}

func (ShapeOverlay) Kind() Kind { return KindShape }

func (o *ShapeOverlay) VerticalPosition() *float64 { return &o.Y }

func (o *ShapeOverlay) Normalize() {
	o.Shape = orDefault(o.Shape, ShapeRect)
	o.X = layout.ClampPercent(o.X)
	o.Y = layout.ClampPercent(o.Y)
	o.Width = layout.ClampPercent(o.Width)
	o.Height = layout.ClampPercent(o.Height)
	o.Opacity = layout.ClampUnit(o.Opacity)
	o.StrokeWidth = clampf(o.StrokeWidth, 0, 100)
	if o.Color == "" {
		o.Color = "#000000"
	}
}

// ImageOverlay is a picture placed over the video. Sizes are percent of frame.
type ImageOverlay struct {
	Base
	URL          string    `json:"url"`
	X            float64   `json:"x"`
	Y            float64   `json:"y"`
	Width        float64   `json:"width"`
	Height       float64   `json:"height"`
	Opacity      float64   `json:"opacity"`
	BorderRadius float64   `json:"borderRadius"`
	AnimationIn  Animation `json:"animationIn"`
	AnimationOut Animation `json:"animationOut"`
}

// NewImageOverlay returns a centred image covering a quarter of the frame.
func NewImageOverlay(url string) ImageOverlay {
	return ImageOverlay{
		URL:          url,
		X:            50,
		Y:            50,
		Width:        25,
		Height:       25,
		Opacity:      1,
		AnimationIn:  AnimationNone,
		AnimationOut: AnimationNone,
	}
}

func (ImageOverlay) Kind() Kind { return KindImage }

func (o *ImageOverlay) VerticalPosition() *float64 { return &o.Y }

func (o *ImageOverlay) Normalize() {
	o.X = layout.ClampPercent(o.X)
	o.Y = layout.ClampPercent(o.Y)
	o.Width = layout.ClampPercent(o.Width)
	o.Height = layout.ClampPercent(o.Height)
	o.Opacity = layout.ClampUnit(o.Opacity)
	o.BorderRadius = clampf(o.BorderRadius, 0, 50)
	o.AnimationIn = orDefault(o.AnimationIn, AnimationNone)
	o.AnimationOut = orDefault(o.AnimationOut, AnimationNone)
}

// GradientOverlay is a two-stop colour gradient over part of the frame.
type GradientOverlay struct {
	Base
	Direction GradientDirection `json:"direction"`
	Colors    [2]string         `json:"colors"`
	Opacity   float64           `json:"opacity"`
	Region    GradientRegion    `json:"region"`
}

// NewGradientOverlay returns a transparent-to-black gradient over the region.
func NewGradientOverlay(region GradientRegion) GradientOverlay {
	return GradientOverlay{
		Direction: GradientToBottom,
		Colors:    [2]string{"#00000000", "#000000CC"},
		Opacity:   1,
		Region:    region,
	}
}

func (GradientOverlay) Kind() Kind { return KindGradient }

func (o *GradientOverlay) Normalize() {
	o.Direction = orDefault(o.Direction, GradientToBottom)
	o.Region = orDefault(o.Region, RegionFull)
	o.Opacity = layout.ClampUnit(o.Opacity)
	if o.Colors[0] == "" {
		o.Colors[0] = "#00000000"
	}
	if o.Colors[1] == "" {
		o.Colors[1] = "#000000CC"
	}
}

func normalizeAnimation(a Animation, duration, span float64) (Animation, float64) {
	a = orDefault(a, AnimationNone)
	if a == AnimationNone {
		return a, 0
	}
	if !(duration > 0) {
		duration = DefaultAnimationDuration
	}
	if span > 0 {
		duration = clampf(duration, 0, span)
	}
	return a, duration
}
