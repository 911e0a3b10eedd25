package composition

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/core/models"
	"github.com/zeusync/timeline/internal/core/templates"
	"github.com/zeusync/timeline/internal/core/timing"
)

func captionTemplate() templates.Template {
	return templates.Template{
		ID: "caption",
		Elements: []templates.Element{
			{Kind: templates.ElementText, Text: &templates.TextConfig{
				Timing: templates.Timing{StartOffset: templates.Float(0), Duration: templates.Float(5)},
				Text:   "Hello",
				Y:      templates.Float(78),
			}},
		},
	}
}

func TestApplyTemplateOnVerticalLayout(t *testing.T) {
	c := New(WithLayout(layout.Vertical))
	ids := c.ApplyTemplate(timing.Playhead{Duration: 60, Time: 10}, captionTemplate(), 3)
	require.Len(t, ids, 1)

	texts := c.Texts()
	require.Len(t, texts, 1)
	o := texts[0]
	assert.Equal(t, ids[0], o.ID)
	assert.Equal(t, 10.0, o.StartTime)
	assert.Equal(t, 15.0, o.EndTime)
	assert.Equal(t, 74.0, o.Y)
	assert.Equal(t, "caption", o.MotionGraphic)
	assert.Equal(t, 1, c.HistoryLen())
}

func TestApplyTemplateTwiceIsIndependent(t *testing.T) {
	c := New()
	tpl, err := templates.Builtin().Get("lower-third")
	require.NoError(t, err)

	first := c.ApplyTemplate(timing.Playhead{Duration: 120, Time: 5}, tpl, 3)
	second := c.ApplyTemplate(timing.Playhead{Duration: 120, Time: 40}, tpl, 3)
	require.Len(t, first, 3)
	require.Len(t, second, 3)
	for _, id := range first {
		assert.NotContains(t, second, id)
	}

	// declared order is insertion order
	paint := c.PaintOrder(5.7)
	require.Len(t, paint, 3)
	assert.Equal(t, first, []models.ID{paint[0].ID, paint[1].ID, paint[2].ID})

	for _, id := range first {
		if !c.RemoveText(id) {
			require.True(t, c.RemoveShape(id))
		}
	}
	assert.Len(t, c.Texts(), 2)
	assert.Len(t, c.Shapes(), 1)
}

func TestApplyTemplateCapsAtVideoDuration(t *testing.T) {
	c := New()
	ids := c.ApplyTemplate(timing.Playhead{Duration: 12, Time: 11}, captionTemplate(), 3)
	require.Len(t, ids, 1)
	o := c.Texts()[0]
	assert.LessOrEqual(t, o.EndTime, 12.0)
	assert.Greater(t, o.EndTime, o.StartTime)
}

func TestApplyTemplatesBatch(t *testing.T) {
	c := New(WithLayout(layout.Portrait))
	catalog := templates.Builtin()
	var placements []Placement
	want := 0
	for i, tpl := range catalog.Templates {
		placements = append(placements, Placement{Template: tpl, Anchor: float64(i * 10)})
		want += len(tpl.Elements)
	}

	ids, err := c.ApplyTemplates(context.Background(), timing.Playhead{Duration: 120}, placements, 3)
	require.NoError(t, err)
	require.Len(t, ids, want)
	assert.Equal(t, want, len(c.Texts())+len(c.Shapes()))
	assert.Equal(t, 1, c.HistoryLen())

	require.True(t, c.Undo())
	assert.Empty(t, c.Texts())

	ids, err = c.ApplyTemplates(context.Background(), timing.Playhead{Duration: 120}, nil, 3)
	require.NoError(t, err)
	require.Empty(t, ids)
}
