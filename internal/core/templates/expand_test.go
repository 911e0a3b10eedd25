package templates

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/core/models"
	"github.com/zeusync/timeline/internal/core/timing"
)

func sequentialIDs() IDFunc {
	var n atomic.Int64
	return func() models.ID {
		return models.ID(fmt.Sprintf("id-%d", n.Add(1)))
	}
}

func TestExpandVerticalScenario(t *testing.T) {
	tpl := Template{
		ID: "caption",
		Elements: []Element{{
			Kind: ElementText,
			Text: &TextConfig{
				Timing: Timing{StartOffset: Float(0), Duration: Float(5)},
				Text:   "Hello",
				Y:      Float(78),
			},
		}},
	}

	exp := Expand(tpl, Request{Anchor: 10, DefaultDuration: 3, VideoDuration: 60, Layout: layout.Vertical}, sequentialIDs())
	require.Len(t, exp.Texts, 1)
	require.Empty(t, exp.Shapes)

	o := exp.Texts[0]
	assert.Equal(t, 10.0, o.StartTime)
	assert.Equal(t, 15.0, o.EndTime)
	assert.Equal(t, 74.0, o.Y)
	assert.Equal(t, "caption", o.MotionGraphic)
	assert.Equal(t, models.ID("id-1"), o.ID)
}

func TestExpandExplicitZeroDuration(t *testing.T) {
	tpl := Template{
		ID: "flash",
		Elements: []Element{
			{Kind: ElementText, Text: &TextConfig{Text: "a", Timing: Timing{StartOffset: Float(0), Duration: Float(0)}}},
			{Kind: ElementText, Text: &TextConfig{Text: "b", Timing: Timing{StartOffset: Float(1), Duration: Float(-4)}}},
		},
	}

	exp := Expand(tpl, Request{Anchor: 10, DefaultDuration: 5, VideoDuration: 60}, sequentialIDs())
	require.Len(t, exp.Texts, 2)
	assert.Equal(t, 10.0, exp.Texts[0].StartTime)
	assert.Equal(t, 10.5, exp.Texts[0].EndTime)
	assert.Equal(t, 11.0, exp.Texts[1].StartTime)
	assert.Equal(t, 11.5, exp.Texts[1].EndTime)
}

func TestExpandDefaultsAndOrder(t *testing.T) {
	tpl := Template{
		ID: "mixed",
		Elements: []Element{
			{Kind: ElementShape, Shape: &ShapeConfig{Kind: models.ShapeRect, Y: Float(80)}},
			{Kind: ElementText, Text: &TextConfig{Text: "a", Timing: Timing{StartOffset: Float(1)}}},
			{Kind: ElementText},
			{Kind: ElementShape, Shape: &ShapeConfig{Kind: models.ShapeCircle, Timing: Timing{Duration: Float(2)}}},
		},
	}

	exp := Expand(tpl, Request{Anchor: 4, DefaultDuration: 6, Layout: layout.Standard}, sequentialIDs())
	require.Equal(t, 3, exp.Len())
	require.Equal(t, []Ref{
		{Kind: models.KindShape, Index: 0},
		{Kind: models.KindText, Index: 0},
		{Kind: models.KindShape, Index: 1},
	}, exp.Order)
	require.Equal(t, []models.ID{"id-1", "id-2", "id-3"}, exp.IDs())

	// absent offset is zero, absent duration is the request default
	assert.Equal(t, timing.Range{Start: 4, End: 10}, exp.Shapes[0].Range())
	assert.Equal(t, 80.0, exp.Shapes[0].Y)
	assert.Equal(t, timing.Range{Start: 5, End: 11}, exp.Texts[0].Range())
	assert.Equal(t, 50.0, exp.Texts[0].Y)
	assert.Equal(t, timing.Range{Start: 4, End: 6}, exp.Shapes[1].Range())
}

func TestExpandNeverExceedsVideoDuration(t *testing.T) {
	tpl := Template{
		ID: "late",
		Elements: []Element{
			{Kind: ElementText, Text: &TextConfig{Text: "a", Timing: Timing{Duration: Float(5)}}},
			{Kind: ElementText, Text: &TextConfig{Text: "b", Timing: Timing{StartOffset: Float(10)}}},
		},
	}

	for _, anchor := range []float64{0, 8, 9.9, 10, 25} {
		exp := Expand(tpl, Request{Anchor: anchor, DefaultDuration: 3, VideoDuration: 10}, nil)
		require.Len(t, exp.Texts, 2)
		for _, o := range exp.Texts {
			assert.LessOrEqual(t, o.EndTime, 10.0, "anchor %v", anchor)
			assert.Greater(t, o.EndTime, o.StartTime, "anchor %v", anchor)
		}
	}
}

func TestExpandTwiceYieldsDisjointIDs(t *testing.T) {
	tpl := Builtin().Templates[0]

	first := Expand(tpl, Request{Anchor: 2, VideoDuration: 120}, nil)
	second := Expand(tpl, Request{Anchor: 30, VideoDuration: 120}, nil)

	seen := map[models.ID]bool{}
	for _, id := range append(first.IDs(), second.IDs()...) {
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	for i, el := range tpl.Elements {
		tm, _ := el.timing()
		offset := 0.0
		if tm.StartOffset != nil {
			offset = *tm.StartOffset
		}
		ref := second.Order[i]
		var start float64
		if ref.Kind == models.KindText {
			start = second.Texts[ref.Index].StartTime
		} else {
			start = second.Shapes[ref.Index].StartTime
		}
		assert.InDelta(t, 30+offset, start, 1e-9)
	}
}

func TestExpandAll(t *testing.T) {
	catalog := Builtin()
	var jobs []Job
	for i, tpl := range catalog.Templates {
		jobs = append(jobs, Job{Template: tpl, Request: Request{Anchor: float64(i), VideoDuration: 60}})
	}

	out, err := ExpandAll(context.Background(), jobs, 3, nil)
	require.NoError(t, err)
	require.Len(t, out, len(jobs))
	for i, exp := range out {
		assert.Equal(t, jobs[i].Template.ID, exp.TemplateID)
		assert.Equal(t, len(jobs[i].Template.Elements), exp.Len())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ExpandAll(ctx, jobs, 1, nil)
	require.ErrorIs(t, err, context.Canceled)
}
