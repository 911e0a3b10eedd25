package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownEffectType is returned when decoding an effect whose type is not
// one of the known EffectType values.
var ErrUnknownEffectType = errors.New("unknown effect type")

// EffectType selects the effect family and the shape of its parameters.
type EffectType string

const (
	EffectFilter     EffectType = "filter"
	EffectTransition EffectType = "transition"
	EffectMotion     EffectType = "motion"
	EffectOverlay    EffectType = "overlay"
	EffectSpeed      EffectType = "speed"
	EffectAudio      EffectType = "audio"
)

func (t EffectType) Valid() bool {
	switch t {
	case EffectFilter, EffectTransition, EffectMotion, EffectOverlay, EffectSpeed, EffectAudio:
		return true
	}
	return false
}

// Effect is a parametrised treatment applied over a time range.
type Effect struct {
	Base
	Name string     `json:"name,omitempty"`
	Type EffectType `json:"type"`
	// Params always matches Type after Normalize.
	Params     EffectParams `json:"-"`
	Intensity  float64      `json:"intensity"`
	Enabled    bool         `json:"enabled"`
	FadeIn     float64      `json:"fadeIn"`
	FadeOut    float64      `json:"fadeOut"`
	FadeEasing Easing       `json:"fadeEasing"`
	Locked     bool         `json:"locked"`
	GroupID    string       `json:"groupId,omitempty"`
}

// NewEffect returns an enabled effect of the given type with default params.
func NewEffect(t EffectType) Effect {
	return Effect{
		Type:       t,
		Params:     DefaultParams(t),
		Intensity:  1,
		Enabled:    true,
		FadeEasing: EasingLinear,
	}
}

func (Effect) Kind() Kind { return KindEffect }

func (e *Effect) Normalize() {
	e.Type = orDefault(e.Type, EffectFilter)
	if e.Params == nil || e.Params.EffectType() != e.Type {
		e.Params = DefaultParams(e.Type)
	}
	e.Params = e.Params.normalized()
	e.Intensity = clampf(e.Intensity, 0, 1)
	e.FadeEasing = orDefault(e.FadeEasing, EasingLinear)

	span := e.Duration()
	if span < 0 {
		span = 0
	}
	e.FadeIn = clampf(e.FadeIn, 0, span)
	e.FadeOut = clampf(e.FadeOut, 0, span-e.FadeIn)
}

type effectJSON Effect

func (e Effect) MarshalJSON() ([]byte, error) {
	params := e.Params
	if params == nil {
		params = DefaultParams(e.Type)
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal %s params: %w", e.Type, err)
	}
	return json.Marshal(struct {
		effectJSON
		Params json.RawMessage `json:"params"`
	}{effectJSON(e), raw})
}

func (e *Effect) UnmarshalJSON(data []byte) error {
	var aux struct {
		effectJSON
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Type == "" {
		aux.Type = EffectFilter
	}
	params, err := DecodeParams(aux.Type, aux.Params)
	if err != nil {
		return err
	}
	*e = Effect(aux.effectJSON)
	e.Params = params
	return nil
}

// DecodeParams decodes raw params for the given effect type on top of the
// type's defaults. Empty input yields the defaults.
func DecodeParams(t EffectType, raw json.RawMessage) (EffectParams, error) {
	switch t {
	case EffectFilter:
		return decodeInto(raw, DefaultFilterParams())
	case EffectTransition:
		return decodeInto(raw, DefaultTransitionParams())
	case EffectMotion:
		return decodeInto(raw, DefaultMotionParams())
	case EffectOverlay:
		return decodeInto(raw, DefaultOverlayParams())
	case EffectSpeed:
		return decodeInto(raw, DefaultSpeedParams())
	case EffectAudio:
		return decodeInto(raw, DefaultAudioParams())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffectType, t)
	}
}

func decodeInto[P EffectParams](raw json.RawMessage, params P) (EffectParams, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return params, nil
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("decode %s params: %w", params.EffectType(), err)
	}
	return params, nil
}
