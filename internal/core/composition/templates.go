package composition

import (
	"context"

	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/core/models"
	"github.com/zeusync/timeline/internal/core/templates"
	"github.com/zeusync/timeline/internal/core/timing"
)

// Placement asks for a template to be expanded at an anchor time.
type Placement struct {
	Template templates.Template
	Anchor   float64
}

// ApplyTemplate expands tpl at the playhead with the current layout and
// inserts the result as one undoable write. It returns the new IDs in the
// template's declared order.
func (c *Composition) ApplyTemplate(ph timing.Playhead, tpl templates.Template, defaultDuration float64) []models.ID {
	var ids []models.ID
	c.Apply(Func("apply_template", SliceTexts|SliceShapes, func(tx *Tx) bool {
		exp := templates.Expand(tpl, requestFor(ph, ph.Time, defaultDuration, tx.state.Layout), tx.NewID)
		ids = commitExpansion(tx, ph, exp)
		return len(ids) > 0
	}))
	return ids
}

// ApplyTemplates expands several placements concurrently and commits all of
// them as a single write. If the layout changes while expanding, the
// placements are expanded again under the lock.
func (c *Composition) ApplyTemplates(ctx context.Context, ph timing.Playhead, placements []Placement, defaultDuration float64) ([]models.ID, error) {
	if len(placements) == 0 {
		return nil, nil
	}

	c.mu.Lock()
	expandedFor := c.state.Layout
	c.mu.Unlock()

	jobs := jobsFor(ph, placements, defaultDuration, expandedFor)
	expansions, err := templates.ExpandAll(ctx, jobs, 0, c.ids)
	if err != nil {
		return nil, err
	}

	var ids []models.ID
	c.Apply(Func("apply_templates", SliceTexts|SliceShapes, func(tx *Tx) bool {
		if tx.state.Layout != expandedFor {
			for i, job := range jobsFor(ph, placements, defaultDuration, tx.state.Layout) {
				expansions[i] = templates.Expand(job.Template, job.Request, tx.NewID)
			}
		}
		for _, exp := range expansions {
			ids = append(ids, commitExpansion(tx, ph, exp)...)
		}
		return len(ids) > 0
	}))
	return ids, nil
}

func jobsFor(ph timing.Playhead, placements []Placement, defaultDuration float64, l layout.Layout) []templates.Job {
	jobs := make([]templates.Job, len(placements))
	for i, p := range placements {
		jobs[i] = templates.Job{Template: p.Template, Request: requestFor(ph, p.Anchor, defaultDuration, l)}
	}
	return jobs
}

func requestFor(ph timing.Playhead, anchor, defaultDuration float64, l layout.Layout) templates.Request {
	return templates.Request{
		Anchor:          anchor,
		DefaultDuration: defaultDuration,
		VideoDuration:   ph.Duration,
		Layout:          l,
	}
}

// commitExpansion inserts the expanded entities in declared order, so their
// insertion sequence follows the template.
func commitExpansion(tx *Tx, ph timing.Playhead, exp templates.Expansion) []models.ID {
	ids := make([]models.ID, 0, exp.Len())
	for _, ref := range exp.Order {
		var (
			id models.ID
			ok bool
		)
		switch ref.Kind {
		case models.KindText:
			o := exp.Texts[ref.Index]
			prepare[models.TextOverlay](tx, &o, ph, false)
			id, ok = insertEntity(tx, &tx.state.Texts, o)
		case models.KindShape:
			o := exp.Shapes[ref.Index]
			prepare[models.ShapeOverlay](tx, &o, ph, false)
			id, ok = insertEntity(tx, &tx.state.Shapes, o)
		}
		if ok {
			ids = append(ids, id)
		}
	}
	return ids
}
