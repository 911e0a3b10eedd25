package models

// SegmentType is the media kind of a timeline segment.
type SegmentType string

const (
	SegmentVideo      SegmentType = "video"
	SegmentAudio      SegmentType = "audio"
	SegmentText       SegmentType = "text"
	SegmentTransition SegmentType = "transition"
	SegmentImage      SegmentType = "image"
)

func (t SegmentType) Valid() bool {
	switch t {
	case SegmentVideo, SegmentAudio, SegmentText, SegmentTransition, SegmentImage:
		return true
	}
	return false
}

// TextStyle is the preset look of a text overlay.
type TextStyle string

const (
	TextPlain       TextStyle = "plain"
	TextBold        TextStyle = "bold"
	TextOutline     TextStyle = "outline"
	TextShadow      TextStyle = "shadow"
	TextNeon        TextStyle = "neon"
	TextBoxed       TextStyle = "boxed"
	TextHandwritten TextStyle = "handwritten"
)

func (s TextStyle) Valid() bool {
	switch s {
	case TextPlain, TextBold, TextOutline, TextShadow, TextNeon, TextBoxed, TextHandwritten:
		return true
	}
	return false
}

// Animation is an entrance or exit animation.
type Animation string

const (
	AnimationNone       Animation = "none"
	AnimationFade       Animation = "fade"
	AnimationSlideUp    Animation = "slide-up"
	AnimationSlideDown  Animation = "slide-down"
	AnimationSlideLeft  Animation = "slide-left"
	AnimationSlideRight Animation = "slide-right"
	AnimationZoomIn     Animation = "zoom-in"
	AnimationZoomOut    Animation = "zoom-out"
	AnimationPop        Animation = "pop"
	AnimationBounce     Animation = "bounce"
	AnimationTypewriter Animation = "typewriter"
)

func (a Animation) Valid() bool {
	switch a {
	case AnimationNone, AnimationFade, AnimationSlideUp, AnimationSlideDown, AnimationSlideLeft,
		AnimationSlideRight, AnimationZoomIn, AnimationZoomOut, AnimationPop, AnimationBounce,
		AnimationTypewriter:
		return true
	}
	return false
}

// ShapeKind is the geometry of a shape overlay.
type ShapeKind string

const (
	ShapeRect   ShapeKind = "rect"
	ShapeCircle ShapeKind = "circle"
	ShapeLine   ShapeKind = "line"
)

func (k ShapeKind) Valid() bool {
	return k == ShapeRect || k == ShapeCircle || k == ShapeLine
}

// GradientDirection is the axis of a gradient overlay.
type GradientDirection string

const (
	GradientToTop    GradientDirection = "to-top"
	GradientToBottom GradientDirection = "to-bottom"
	GradientToLeft   GradientDirection = "to-left"
	GradientToRight  GradientDirection = "to-right"
	GradientDiagonal GradientDirection = "diagonal"
	GradientRadial   GradientDirection = "radial"
)

func (d GradientDirection) Valid() bool {
	switch d {
	case GradientToTop, GradientToBottom, GradientToLeft, GradientToRight, GradientDiagonal, GradientRadial:
		return true
	}
	return false
}

// GradientRegion is the part of the frame a gradient covers.
type GradientRegion string

const (
	RegionFull       GradientRegion = "full"
	RegionLowerThird GradientRegion = "lower-third"
	RegionTopBar     GradientRegion = "top-bar"
	RegionBottomBar  GradientRegion = "bottom-bar"
	RegionVignette   GradientRegion = "vignette"
)

func (r GradientRegion) Valid() bool {
	switch r {
	case RegionFull, RegionLowerThird, RegionTopBar, RegionBottomBar, RegionVignette:
		return true
	}
	return false
}

// TransitionKind is how a segment hands over to the next one.
type TransitionKind string

const (
	TransitionNone      TransitionKind = "none"
	TransitionCrossfade TransitionKind = "crossfade"
	TransitionFadeBlack TransitionKind = "fade-black"
	TransitionWipeLeft  TransitionKind = "wipe-left"
	TransitionWipeRight TransitionKind = "wipe-right"
	TransitionSlide     TransitionKind = "slide"
	TransitionZoom      TransitionKind = "zoom"
	TransitionDissolve  TransitionKind = "dissolve"
)

func (k TransitionKind) Valid() bool {
	switch k {
	case TransitionNone, TransitionCrossfade, TransitionFadeBlack, TransitionWipeLeft,
		TransitionWipeRight, TransitionSlide, TransitionZoom, TransitionDissolve:
		return true
	}
	return false
}

// Easing is the curve used by effect fades.
type Easing string

const (
	EasingLinear    Easing = "linear"
	EasingEaseIn    Easing = "ease-in"
	EasingEaseOut   Easing = "ease-out"
	EasingEaseInOut Easing = "ease-in-out"
)

func (e Easing) Valid() bool {
	switch e {
	case EasingLinear, EasingEaseIn, EasingEaseOut, EasingEaseInOut:
		return true
	}
	return false
}

func orDefault[T interface {
	~string
	Valid() bool
}](v, fallback T) T {
	if v.Valid() {
		return v
	}
	return fallback
}
