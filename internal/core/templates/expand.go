package templates

import (
	"context"

	"github.com/google/uuid"

	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/core/models"
	"github.com/zeusync/timeline/internal/core/timing"
	"github.com/zeusync/timeline/pkg/concurrent"
)

// DefaultElementDuration is used when neither the element nor the request
// gives a duration.
const DefaultElementDuration = 3.0

// IDFunc generates entity IDs. It must be safe for concurrent use when passed
// to ExpandAll.
type IDFunc func() models.ID

// NewID returns a random UUID-based ID.
func NewID() models.ID { return models.ID(uuid.NewString()) }

// Request carries the inputs of one expansion.
type Request struct {
	// Anchor is the playhead time the template starts at.
	Anchor          float64
	DefaultDuration float64
	// VideoDuration caps every end time. Zero or less means unknown.
	VideoDuration float64
	// Layout is the layout active at expansion time.
	Layout layout.Layout
}

// Ref points at one entity of an Expansion.
type Ref struct {
	Kind  models.Kind
	Index int
}

// Expansion holds the entities produced from one template.
type Expansion struct {
	TemplateID string
	Texts      []models.TextOverlay
	Shapes     []models.ShapeOverlay
	// Order lists every entity in the template's declared order.
	Order []Ref
}

// Len returns the number of entities produced.
func (e Expansion) Len() int { return len(e.Order) }

// IDs returns the produced IDs in declared order.
func (e Expansion) IDs() []models.ID {
	ids := make([]models.ID, 0, len(e.Order))
	for _, ref := range e.Order {
		switch ref.Kind {
		case models.KindText:
			ids = append(ids, e.Texts[ref.Index].ID)
		case models.KindShape:
			ids = append(ids, e.Shapes[ref.Index].ID)
		}
	}
	return ids
}

// Expand materialises tpl at req.Anchor. Elements without a matching config
// are skipped. A nil ids falls back to NewID.
func Expand(tpl Template, req Request, ids IDFunc) Expansion {
	if ids == nil {
		ids = NewID
	}
	if !(req.DefaultDuration > 0) {
		req.DefaultDuration = DefaultElementDuration
	}

	out := Expansion{TemplateID: tpl.ID}
	for _, el := range tpl.Elements {
		tm, ok := el.timing()
		if !ok {
			continue
		}
		base := models.Base{ID: ids(), Layer: tm.Layer}
		base.SetRange(place(tm, req))

		switch el.Kind {
		case ElementText:
			o := textOverlay(*el.Text, tpl.ID, req.Layout)
			o.Base = base
			o.Normalize()
			out.Order = append(out.Order, Ref{Kind: models.KindText, Index: len(out.Texts)})
			out.Texts = append(out.Texts, o)
		case ElementShape:
			o := shapeOverlay(*el.Shape, tpl.ID, req.Layout)
			o.Base = base
			o.Normalize()
			out.Order = append(out.Order, Ref{Kind: models.KindShape, Index: len(out.Shapes)})
			out.Shapes = append(out.Shapes, o)
		}
	}
	return out
}

// place computes anchor + offset and anchor + offset + duration, capped at
// the video duration. An element that would start past the end is pulled back
// into the last minimum-length window. An explicit zero or negative duration
// is stretched to the minimum length rather than replaced by the default.
func place(tm Timing, req Request) timing.Range {
	start := req.Anchor
	if tm.StartOffset != nil {
		start += *tm.StartOffset
	}
	duration := req.DefaultDuration
	if tm.Duration != nil {
		duration = *tm.Duration
	}
	return timing.Clamp(start, start+duration, req.VideoDuration)
}

func textOverlay(cfg TextConfig, templateID string, l layout.Layout) models.TextOverlay {
	o := models.NewTextOverlay(cfg.Text)
	if cfg.X != nil {
		o.X = *cfg.X
	}
	if cfg.Y != nil {
		o.Y = *cfg.Y
	}
	o.Y = layout.RemapY(o.Y, l)
	if cfg.FontSize > 0 {
		o.FontSize = cfg.FontSize
	}
	if cfg.Color != "" {
		o.Color = cfg.Color
	}
	if cfg.FontFamily != "" {
		o.FontFamily = cfg.FontFamily
	}
	if cfg.Style != "" {
		o.Style = cfg.Style
	}
	if cfg.AnimationIn != "" {
		o.AnimationIn = cfg.AnimationIn
	}
	if cfg.AnimationOut != "" {
		o.AnimationOut = cfg.AnimationOut
	}
	o.MotionGraphic = templateID
	return o
}

func shapeOverlay(cfg ShapeConfig, templateID string, l layout.Layout) models.ShapeOverlay {
	o := models.NewShapeOverlay(cfg.Kind)
	if cfg.X != nil {
		o.X = *cfg.X
	}
	if cfg.Y != nil {
		o.Y = *cfg.Y
	}
	o.Y = layout.RemapY(o.Y, l)
	if cfg.Width > 0 {
		o.Width = cfg.Width
	}
	if cfg.Height > 0 {
		o.Height = cfg.Height
	}
	if cfg.Color != "" {
		o.Color = cfg.Color
	}
	if cfg.Opacity != nil {
		o.Opacity = *cfg.Opacity
	}
	o.StrokeWidth = cfg.StrokeWidth
	o.MotionGraphic = templateID
	return o
}

// Job pairs a template with the request it is expanded for.
type Job struct {
	Template Template
	Request  Request
}

// ExpandAll expands every job with at most workers goroutines and returns the
// expansions in job order. Expansion itself cannot fail; the only error is
// ctx being cancelled.
func ExpandAll(ctx context.Context, jobs []Job, workers int, ids IDFunc) ([]Expansion, error) {
	if ids == nil {
		ids = NewID
	}
	return concurrent.Map(ctx, jobs, workers, func(_ context.Context, job Job) (Expansion, error) {
		return Expand(job.Template, job.Request, ids), nil
	})
}
