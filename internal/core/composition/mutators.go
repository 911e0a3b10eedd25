package composition

import (
	"slices"

	"github.com/zeusync/timeline/internal/core/events"
	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/core/models"
	"github.com/zeusync/timeline/internal/core/timing"
)

// SetLayout switches the canvas layout. Existing entities keep their
// positions. Unknown layouts are ignored.
func (c *Composition) SetLayout(l layout.Layout) bool {
	return c.Apply(Func("set_layout", SliceLayout, func(tx *Tx) bool {
		if !l.Valid() || tx.state.Layout == l {
			return false
		}
		tx.state.Layout = l
		tx.TouchSetting(events.SettingLayout)
		return true
	}))
}

// SetFilters replaces the global filter adjustments, clamped into range.
func (c *Composition) SetFilters(p models.FilterParams) bool {
	p = p.Normalized()
	return c.Apply(Func("set_filters", SliceFilters, func(tx *Tx) bool {
		if tx.state.Filters == p {
			return false
		}
		tx.state.Filters = p
		tx.TouchSetting(events.SettingFilters)
		return true
	}))
}

func (c *Composition) ResetFilters() bool {
	return c.SetFilters(models.DefaultFilterParams())
}

// AddSegment inserts a segment and keeps the collection sorted by start.
func (c *Composition) AddSegment(ph timing.Playhead, s models.Segment) (models.ID, bool) {
	var id models.ID
	c.Apply(Func("add_segment", SliceSegments, func(tx *Tx) bool {
		var ok bool
		if id, ok = addEntity(tx, &tx.state.Segments, ph, s); ok {
			sortSegments(tx.state.Segments)
		}
		return ok
	}))
	return id, id != ""
}

func (c *Composition) UpdateSegment(ph timing.Playhead, id models.ID, fn func(*models.Segment)) bool {
	return c.Apply(Func("update_segment", SliceSegments, func(tx *Tx) bool {
		if !updateEntity(tx, &tx.state.Segments, id, ph, fn) {
			return false
		}
		sortSegments(tx.state.Segments)
		return true
	}))
}

func (c *Composition) RemoveSegment(id models.ID) bool {
	return c.Apply(Func("remove_segment", SliceSegments, func(tx *Tx) bool {
		return removeEntity(tx, &tx.state.Segments, id)
	}))
}

// SplitSegment cuts a segment at time at. Both halves must be at least the
// minimum duration long. The right half gets a new ID and inherits the
// outgoing transition.
func (c *Composition) SplitSegment(id models.ID, at float64) (models.ID, bool) {
	var rightID models.ID
	c.Apply(Func("split_segment", SliceSegments, func(tx *Tx) bool {
		i := indexOf(tx.state.Segments, id)
		if i < 0 {
			return false
		}
		seg := tx.state.Segments[i]
		if at-seg.StartTime < tx.c.minDuration || seg.EndTime-at < tx.c.minDuration {
			return false
		}

		cut := seg.SourceAt(at)
		left := seg
		left.EndTime = at
		left.SourceEnd = cut
		left.TransitionOut = models.TransitionNone
		left.Normalize()

		right := seg
		right.ID = ""
		right.StartTime = at
		right.SourceStart = cut
		right.Normalize()

		segments := slices.Clone(tx.state.Segments)
		segments[i] = left
		tx.state.Segments = segments
		tx.Touch(models.KindSegment, id)

		var ok bool
		if rightID, ok = insertEntity(tx, &tx.state.Segments, right); !ok {
			// Guard refused the right half; undo the cut.
			segments[i] = seg
			return false
		}
		sortSegments(tx.state.Segments)
		return true
	}))
	return rightID, rightID != ""
}

// NextSegment returns the first segment starting after t.
func (c *Composition) NextSegment(t float64) (models.Segment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.state.Segments {
		if s.StartTime > t {
			return s, true
		}
	}
	return models.Segment{}, false
}

func (c *Composition) AddText(ph timing.Playhead, o models.TextOverlay) (models.ID, bool) {
	var id models.ID
	c.Apply(Func("add_text", SliceTexts, func(tx *Tx) (ok bool) {
		id, ok = addEntity(tx, &tx.state.Texts, ph, o)
		return ok
	}))
	return id, id != ""
}

// UpdateText edits a text overlay in place. The vertical position is not
// remapped again.
func (c *Composition) UpdateText(ph timing.Playhead, id models.ID, fn func(*models.TextOverlay)) bool {
	return c.Apply(Func("update_text", SliceTexts, func(tx *Tx) bool {
		return updateEntity(tx, &tx.state.Texts, id, ph, fn)
	}))
}

func (c *Composition) RemoveText(id models.ID) bool {
	return c.Apply(Func("remove_text", SliceTexts, func(tx *Tx) bool {
		return removeEntity(tx, &tx.state.Texts, id)
	}))
}

func (c *Composition) AddShape(ph timing.Playhead, o models.ShapeOverlay) (models.ID, bool) {
	var id models.ID
	c.Apply(Func("add_shape", SliceShapes, func(tx *Tx) (ok bool) {
		id, ok = addEntity(tx, &tx.state.Shapes, ph, o)
		return ok
	}))
	return id, id != ""
}

func (c *Composition) UpdateShape(ph timing.Playhead, id models.ID, fn func(*models.ShapeOverlay)) bool {
	return c.Apply(Func("update_shape", SliceShapes, func(tx *Tx) bool {
		return updateEntity(tx, &tx.state.Shapes, id, ph, fn)
	}))
}

func (c *Composition) RemoveShape(id models.ID) bool {
	return c.Apply(Func("remove_shape", SliceShapes, func(tx *Tx) bool {
		return removeEntity(tx, &tx.state.Shapes, id)
	}))
}

func (c *Composition) AddImage(ph timing.Playhead, o models.ImageOverlay) (models.ID, bool) {
	var id models.ID
	c.Apply(Func("add_image", SliceImages, func(tx *Tx) (ok bool) {
		id, ok = addEntity(tx, &tx.state.Images, ph, o)
		return ok
	}))
	return id, id != ""
}

func (c *Composition) UpdateImage(ph timing.Playhead, id models.ID, fn func(*models.ImageOverlay)) bool {
	return c.Apply(Func("update_image", SliceImages, func(tx *Tx) bool {
		return updateEntity(tx, &tx.state.Images, id, ph, fn)
	}))
}

func (c *Composition) RemoveImage(id models.ID) bool {
	return c.Apply(Func("remove_image", SliceImages, func(tx *Tx) bool {
		return removeEntity(tx, &tx.state.Images, id)
	}))
}

func (c *Composition) AddGradient(ph timing.Playhead, o models.GradientOverlay) (models.ID, bool) {
	var id models.ID
	c.Apply(Func("add_gradient", SliceGradients, func(tx *Tx) (ok bool) {
		id, ok = addEntity(tx, &tx.state.Gradients, ph, o)
		return ok
	}))
	return id, id != ""
}

func (c *Composition) UpdateGradient(ph timing.Playhead, id models.ID, fn func(*models.GradientOverlay)) bool {
	return c.Apply(Func("update_gradient", SliceGradients, func(tx *Tx) bool {
		return updateEntity(tx, &tx.state.Gradients, id, ph, fn)
	}))
}

func (c *Composition) RemoveGradient(id models.ID) bool {
	return c.Apply(Func("remove_gradient", SliceGradients, func(tx *Tx) bool {
		return removeEntity(tx, &tx.state.Gradients, id)
	}))
}

func (c *Composition) AddEffect(ph timing.Playhead, e models.Effect) (models.ID, bool) {
	var id models.ID
	c.Apply(Func("add_effect", SliceEffects, func(tx *Tx) (ok bool) {
		id, ok = addEntity(tx, &tx.state.Effects, ph, e)
		return ok
	}))
	return id, id != ""
}

// UpdateEffect edits an effect. Locked effects are left untouched; the lock
// itself is changed with SetEffectLocked.
func (c *Composition) UpdateEffect(ph timing.Playhead, id models.ID, fn func(*models.Effect)) bool {
	return c.Apply(Func("update_effect", SliceEffects, func(tx *Tx) bool {
		if e, ok := find(tx.state.Effects, id); !ok || e.Locked || fn == nil {
			return false
		}
		return updateEntity(tx, &tx.state.Effects, id, ph, func(e *models.Effect) {
			fn(e)
			e.Locked = false
		})
	}))
}

// RemoveEffect deletes an unlocked effect.
func (c *Composition) RemoveEffect(id models.ID) bool {
	return c.Apply(Func("remove_effect", SliceEffects, func(tx *Tx) bool {
		if e, ok := find(tx.state.Effects, id); !ok || e.Locked {
			return false
		}
		return removeEntity(tx, &tx.state.Effects, id)
	}))
}

// ToggleEffect flips Enabled on an unlocked effect.
func (c *Composition) ToggleEffect(id models.ID) bool {
	return c.Apply(Func("toggle_effect", SliceEffects, func(tx *Tx) bool {
		if e, ok := find(tx.state.Effects, id); !ok || e.Locked {
			return false
		}
		return updateEntity(tx, &tx.state.Effects, id, timing.Playhead{}, func(e *models.Effect) {
			e.Enabled = !e.Enabled
		})
	}))
}

func (c *Composition) SetEffectLocked(id models.ID, locked bool) bool {
	return c.Apply(Func("lock_effect", SliceEffects, func(tx *Tx) bool {
		return updateEntity(tx, &tx.state.Effects, id, timing.Playhead{}, func(e *models.Effect) {
			e.Locked = locked
		})
	}))
}

// RemoveEffectGroup deletes every unlocked effect of a group and returns how
// many were removed.
func (c *Composition) RemoveEffectGroup(group string) int {
	removed := 0
	c.Apply(Func("remove_effect_group", SliceEffects, func(tx *Tx) bool {
		if group == "" {
			return false
		}
		kept := make([]models.Effect, 0, len(tx.state.Effects))
		for _, e := range tx.state.Effects {
			if e.GroupID == group && !e.Locked {
				tx.Touch(models.KindEffect, e.ID)
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if removed == 0 {
			return false
		}
		tx.state.Effects = kept
		return true
	}))
	return removed
}
