package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffectJSON(t *testing.T) {
	t.Run("Params are discriminated by type", func(t *testing.T) {
		e := NewEffect(EffectMotion)
		e.ID = "fx-1"
		e.StartTime, e.EndTime = 1, 4
		e.Params = MotionParams{Preset: MotionZoomIn, ScaleFrom: 1, ScaleTo: 1.4}
		e.GroupID = "intro"

		data, err := json.Marshal(e)
		require.NoError(t, err)
		require.Contains(t, string(data), `"params":{"preset":"zoom-in"`)
		require.Contains(t, string(data), `"startTime":1`)

		var decoded Effect
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, e, decoded)
	})

	t.Run("Missing params fall back to defaults", func(t *testing.T) {
		var e Effect
		require.NoError(t, json.Unmarshal([]byte(`{"id":"a","type":"audio","startTime":0,"endTime":2}`), &e))
		require.Equal(t, DefaultAudioParams(), e.Params)
	})

	t.Run("Partial params keep defaults for the rest", func(t *testing.T) {
		var e Effect
		require.NoError(t, json.Unmarshal([]byte(`{"type":"filter","params":{"sepia":40}}`), &e))
		p, ok := e.Params.(FilterParams)
		require.True(t, ok)
		require.Equal(t, 40.0, p.Sepia)
		require.Equal(t, 100.0, p.Brightness)
	})

	t.Run("Missing type defaults to filter", func(t *testing.T) {
		var e Effect
		require.NoError(t, json.Unmarshal([]byte(`{"id":"a","params":{"blur":3}}`), &e))
		require.Equal(t, EffectFilter, e.Type)
		p, ok := e.Params.(FilterParams)
		require.True(t, ok)
		require.Equal(t, 3.0, p.Blur)
	})

	t.Run("Unknown type is rejected", func(t *testing.T) {
		var e Effect
		err := json.Unmarshal([]byte(`{"type":"hologram"}`), &e)
		require.ErrorIs(t, err, ErrUnknownEffectType)
	})
}

func TestEffectNormalize(t *testing.T) {
	e := NewEffect(EffectSpeed)
	e.StartTime, e.EndTime = 0, 2
	e.Params = FilterParams{Brightness: 150}
	e.Intensity = 3
	e.FadeIn = 5
	e.FadeOut = 5
	e.FadeEasing = "wobbly"

	e.Normalize()

	require.Equal(t, DefaultSpeedParams(), e.Params)
	require.Equal(t, 1.0, e.Intensity)
	require.Equal(t, 2.0, e.FadeIn)
	require.Equal(t, 0.0, e.FadeOut)
	require.Equal(t, EasingLinear, e.FadeEasing)
}

func TestFilterParams(t *testing.T) {
	require.True(t, DefaultFilterParams().IsNeutral())

	p := FilterParams{Brightness: 400, Contrast: -1, Saturation: 120, Hue: 270, Blur: 50}.Normalized()
	require.Equal(t, 200.0, p.Brightness)
	require.Equal(t, 0.0, p.Contrast)
	require.Equal(t, 120.0, p.Saturation)
	require.Equal(t, 180.0, p.Hue)
	require.Equal(t, 20.0, p.Blur)
	require.False(t, p.IsNeutral())
}
