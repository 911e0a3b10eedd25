package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemapY(t *testing.T) {
	t.Run("Tall layouts stay inside the safe band", func(t *testing.T) {
		for _, l := range []Layout{Vertical, Portrait} {
			for y := 0.0; y <= 100; y += 0.5 {
				got := RemapY(y, l)
				require.GreaterOrEqual(t, got, 10.0, "layout=%s y=%v", l, y)
				require.LessOrEqual(t, got, 90.0, "layout=%s y=%v", l, y)
			}
		}
	})

	t.Run("Other layouts are identity", func(t *testing.T) {
		for _, l := range []Layout{Auto, Standard, Square, Cinematic, Classic, Layout("unknown")} {
			for _, y := range []float64{-5, 0, 12.5, 50, 78, 100, 130} {
				require.Equal(t, y, RemapY(y, l), "layout=%s", l)
			}
		}
	})

	t.Run("Lower third on vertical", func(t *testing.T) {
		assert.Equal(t, 74.0, RemapY(78, Vertical))
		assert.Equal(t, 10.0, RemapY(5, Portrait))
		assert.Equal(t, 90.0, RemapY(99, Portrait))
	})
}

func TestParse(t *testing.T) {
	l, ok := Parse(" Vertical ")
	require.True(t, ok)
	require.Equal(t, Vertical, l)

	_, ok = Parse("panorama")
	require.False(t, ok)

	require.Equal(t, Standard, Layout("panorama").Or(Standard))
	require.Equal(t, Square, Square.Or(Standard))
}

func TestAspectRatio(t *testing.T) {
	assert.InDelta(t, 16.0/9.0, Standard.AspectRatio(), 1e-9)
	assert.InDelta(t, 9.0/16.0, Vertical.AspectRatio(), 1e-9)
	assert.Equal(t, 0.0, Auto.AspectRatio())
	assert.Len(t, All(), 7)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-4))
	assert.Equal(t, 100.0, ClampPercent(140))
	assert.Equal(t, 42.0, ClampPercent(42))
	assert.Equal(t, 0.0, ClampPercent(math.NaN()))
	assert.Equal(t, 1.0, ClampUnit(3))
	assert.Equal(t, 0.25, ClampUnit(0.25))
}
