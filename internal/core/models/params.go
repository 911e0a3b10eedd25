package models

// EffectParams is the closed set of per-type effect parameters. Only the
// types in this file implement it.
type EffectParams interface {
	EffectType() EffectType
	normalized() EffectParams
}

// DefaultParams returns the neutral parameters for an effect type. Unknown
// types get filter parameters.
func DefaultParams(t EffectType) EffectParams {
	switch t {
	case EffectTransition:
		return DefaultTransitionParams()
	case EffectMotion:
		return DefaultMotionParams()
	case EffectOverlay:
		return DefaultOverlayParams()
	case EffectSpeed:
		return DefaultSpeedParams()
	case EffectAudio:
		return DefaultAudioParams()
	default:
		return DefaultFilterParams()
	}
}

// FilterParams is a colour adjustment. Percentages are 100 when neutral.
// It is also the shape of the composition-wide filter state.
type FilterParams struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Hue        float64 `json:"hue"`
	Blur       float64 `json:"blur"`
	Grayscale  float64 `json:"grayscale"`
	Sepia      float64 `json:"sepia"`
	Vignette   float64 `json:"vignette"`
}

func DefaultFilterParams() FilterParams {
	return FilterParams{Brightness: 100, Contrast: 100, Saturation: 100}
}

func (FilterParams) EffectType() EffectType { return EffectFilter }

// IsNeutral reports whether applying p changes nothing.
func (p FilterParams) IsNeutral() bool {
	return p == DefaultFilterParams()
}

// Normalized clamps every adjustment into its valid range.
func (p FilterParams) Normalized() FilterParams {
	p.Brightness = clampf(p.Brightness, 0, 200)
	p.Contrast = clampf(p.Contrast, 0, 200)
	p.Saturation = clampf(p.Saturation, 0, 200)
	p.Hue = clampf(p.Hue, -180, 180)
	p.Blur = clampf(p.Blur, 0, 20)
	p.Grayscale = clampf(p.Grayscale, 0, 100)
	p.Sepia = clampf(p.Sepia, 0, 100)
	p.Vignette = clampf(p.Vignette, 0, 100)
	return p
}

func (p FilterParams) normalized() EffectParams { return p.Normalized() }

// TransitionParams describes a transition effect between two shots.
type TransitionParams struct {
	Style     TransitionKind `json:"style"`
	Direction string         `json:"direction,omitempty"`
	Softness  float64        `json:"softness"`
}

func DefaultTransitionParams() TransitionParams {
	return TransitionParams{Style: TransitionCrossfade, Softness: 0.5}
}

func (TransitionParams) EffectType() EffectType { return EffectTransition }

func (p TransitionParams) normalized() EffectParams {
	p.Style = orDefault(p.Style, TransitionCrossfade)
	switch p.Direction {
	case "", "left", "right", "up", "down":
	default:
		p.Direction = ""
	}
	p.Softness = clampf(p.Softness, 0, 1)
	return p
}

// MotionPreset is a camera move applied to the frame.
type MotionPreset string

const (
	MotionKenBurns MotionPreset = "ken-burns"
	MotionPanLeft  MotionPreset = "pan-left"
	MotionPanRight MotionPreset = "pan-right"
	MotionZoomIn   MotionPreset = "zoom-in"
	MotionZoomOut  MotionPreset = "zoom-out"
	MotionShake    MotionPreset = "shake"
)

func (m MotionPreset) Valid() bool {
	switch m {
	case MotionKenBurns, MotionPanLeft, MotionPanRight, MotionZoomIn, MotionZoomOut, MotionShake:
		return true
	}
	return false
}

// MotionParams describes a scale and pan over the effect's range.
type MotionParams struct {
	Preset    MotionPreset `json:"preset"`
	ScaleFrom float64      `json:"scaleFrom"`
	ScaleTo   float64      `json:"scaleTo"`
	PanX      float64      `json:"panX"`
	PanY      float64      `json:"panY"`
}

func DefaultMotionParams() MotionParams {
	return MotionParams{Preset: MotionKenBurns, ScaleFrom: 1, ScaleTo: 1.15}
}

func (MotionParams) EffectType() EffectType { return EffectMotion }

func (p MotionParams) normalized() EffectParams {
	p.Preset = orDefault(p.Preset, MotionKenBurns)
	p.ScaleFrom = clampf(p.ScaleFrom, 0.1, 10)
	p.ScaleTo = clampf(p.ScaleTo, 0.1, 10)
	p.PanX = clampf(p.PanX, -100, 100)
	p.PanY = clampf(p.PanY, -100, 100)
	return p
}

// OverlayParams describes a texture composited over the frame.
type OverlayParams struct {
	Texture   string  `json:"texture"`
	BlendMode string  `json:"blendMode"`
	Opacity   float64 `json:"opacity"`
}

func DefaultOverlayParams() OverlayParams {
	return OverlayParams{Texture: "grain", BlendMode: "overlay", Opacity: 0.5}
}

func (OverlayParams) EffectType() EffectType { return EffectOverlay }

func (p OverlayParams) normalized() EffectParams {
	if p.Texture == "" {
		p.Texture = "grain"
	}
	switch p.BlendMode {
	case "normal", "screen", "multiply", "overlay", "soft-light":
	default:
		p.BlendMode = "overlay"
	}
	p.Opacity = clampf(p.Opacity, 0, 1)
	return p
}

// SpeedParams retimes the media under the effect.
type SpeedParams struct {
	Rate          float64 `json:"rate"`
	RampStart     float64 `json:"rampStart,omitempty"`
	RampEnd       float64 `json:"rampEnd,omitempty"`
	Reverse       bool    `json:"reverse"`
	PreservePitch bool    `json:"preservePitch"`
}

func DefaultSpeedParams() SpeedParams {
	return SpeedParams{Rate: 1, PreservePitch: true}
}

func (SpeedParams) EffectType() EffectType { return EffectSpeed }

func (p SpeedParams) normalized() EffectParams {
	if !(p.Rate > 0) {
		p.Rate = 1
	}
	p.Rate = clampf(p.Rate, MinPlaybackSpeed, MaxPlaybackSpeed)
	if p.RampStart != 0 {
		p.RampStart = clampf(p.RampStart, MinPlaybackSpeed, MaxPlaybackSpeed)
	}
	if p.RampEnd != 0 {
		p.RampEnd = clampf(p.RampEnd, MinPlaybackSpeed, MaxPlaybackSpeed)
	}
	return p
}

// AudioParams adjusts the soundtrack under the effect.
type AudioParams struct {
	Volume  float64 `json:"volume"`
	Pan     float64 `json:"pan"`
	Pitch   float64 `json:"pitch"`
	Reverb  float64 `json:"reverb"`
	Ducking bool    `json:"ducking"`
}

func DefaultAudioParams() AudioParams {
	return AudioParams{Volume: 1}
}

func (AudioParams) EffectType() EffectType { return EffectAudio }

func (p AudioParams) normalized() EffectParams {
	p.Volume = clampf(p.Volume, 0, 2)
	p.Pan = clampf(p.Pan, -1, 1)
	p.Pitch = clampf(p.Pitch, -12, 12)
	p.Reverb = clampf(p.Reverb, 0, 1)
	return p
}
