package composition

import (
	"cmp"
	"slices"

	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/core/models"
)

func (c *Composition) Layout() layout.Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Layout
}

func (c *Composition) Filters() models.FilterParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Filters
}

// Segments returns the segments in playback order.
func (c *Composition) Segments() []models.Segment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Clone(c.state.Segments)
}

func (c *Composition) Texts() []models.TextOverlay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Clone(c.state.Texts)
}

func (c *Composition) Shapes() []models.ShapeOverlay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Clone(c.state.Shapes)
}

func (c *Composition) Images() []models.ImageOverlay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Clone(c.state.Images)
}

func (c *Composition) Gradients() []models.GradientOverlay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Clone(c.state.Gradients)
}

func (c *Composition) Effects() []models.Effect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.Clone(c.state.Effects)
}

func (c *Composition) Segment(id models.ID) (models.Segment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return find(c.state.Segments, id)
}

func (c *Composition) Text(id models.ID) (models.TextOverlay, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return find(c.state.Texts, id)
}

func (c *Composition) Effect(id models.ID) (models.Effect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return find(c.state.Effects, id)
}

// ActiveAt returns the entities on screen at t. Layout and filters are
// carried over unchanged.
func (c *Composition) ActiveAt(t float64) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return activeAt(c.state, t)
}

func activeAt(s State, t float64) State {
	return State{
		Layout:    s.Layout,
		Filters:   s.Filters,
		Segments:  activeOf(s.Segments, t),
		Texts:     activeOf(s.Texts, t),
		Shapes:    activeOf(s.Shapes, t),
		Images:    activeOf(s.Images, t),
		Gradients: activeOf(s.Gradients, t),
		Effects:   activeOf(s.Effects, t),
	}
}

func activeOf[T any, P entity[T]](items []T, t float64) []T {
	var out []T
	for i := range items {
		if P(&items[i]).Meta().ActiveAt(t) {
			out = append(out, items[i])
		}
	}
	return out
}

// Paint is one overlay in paint order.
type Paint struct {
	Kind   models.Kind   `json:"kind"`
	ID     models.ID     `json:"id"`
	Layer  int           `json:"layer"`
	Seq    uint64        `json:"seq"`
	Entity models.Entity `json:"entity"`
}

// PaintOrder returns the overlays visible at t from bottom to top: by layer,
// then by insertion order.
func (c *Composition) PaintOrder(t float64) []Paint {
	c.mu.Lock()
	active := activeAt(c.state, t)
	c.mu.Unlock()

	var out []Paint
	out = appendPaint(out, active.Gradients)
	out = appendPaint(out, active.Images)
	out = appendPaint(out, active.Shapes)
	out = appendPaint(out, active.Texts)

	slices.SortStableFunc(out, func(a, b Paint) int {
		if d := cmp.Compare(a.Layer, b.Layer); d != 0 {
			return d
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
	return out
}

func appendPaint[T any, P entity[T]](out []Paint, items []T) []Paint {
	for i := range items {
		p := P(&items[i])
		b := p.Meta()
		out = append(out, Paint{Kind: p.Kind(), ID: b.ID, Layer: b.Layer, Seq: b.Seq, Entity: p})
	}
	return out
}
