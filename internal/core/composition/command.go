package composition

import (
	"slices"

	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/core/models"
	"github.com/zeusync/timeline/internal/core/timing"
)

// Command is one atomic write. Apply reports whether it changed the state;
// a command that returns false must leave the state untouched.
type Command interface {
	Name() string
	// Slices lists the parts of the state Apply may write.
	Slices() Slice
	Apply(tx *Tx) bool
}

type funcCommand struct {
	name   string
	slices Slice
	fn     func(tx *Tx) bool
}

func (f funcCommand) Name() string { return f.name }
func (f funcCommand) Slices() Slice { return f.slices }
func (f funcCommand) Apply(tx *Tx) bool { return f.fn(tx) }

// Func builds a Command from a function.
func Func(name string, slices Slice, fn func(tx *Tx) bool) Command {
	return funcCommand{name: name, slices: slices, fn: fn}
}

// Tx is the write handle passed to a running command. It is only valid for
// the duration of Apply.
type Tx struct {
	c     *Composition
	state *State
	kinds    []models.Kind
	settings []string
	ids      []models.ID
}

// State returns the working state, committed when the command reports a
// change. Writes outside the command's declared slices are not undoable.
func (tx *Tx) State() *State { return tx.state }

// NewID returns a fresh entity ID.
func (tx *Tx) NewID() models.ID { return tx.c.ids() }

// Touch records that the entity with the given id was written.
func (tx *Tx) Touch(kind models.Kind, id models.ID) {
	if !slices.Contains(tx.kinds, kind) {
		tx.kinds = append(tx.kinds, kind)
	}
	if id != "" {
		tx.ids = append(tx.ids, id)
	}
}

// TouchSetting records a change to a composition-wide setting.
func (tx *Tx) TouchSetting(name string) {
	if !slices.Contains(tx.settings, name) {
		tx.settings = append(tx.settings, name)
	}
}

func (tx *Tx) nextSeq() uint64 {
	tx.c.seq++
	return tx.c.seq
}

// Clamp clamps a range with the composition's minimum duration.
func (tx *Tx) Clamp(ph timing.Playhead, start, end float64) timing.Range {
	return ph.ClampWith(start, end, tx.c.minDuration)
}

// prepare makes an entity well-formed before it is stored: the range is
// clamped, attributes normalised and, for new entities, the vertical
// position remapped to the active layout.
func prepare[T any, P entity[T]](tx *Tx, p P, ph timing.Playhead, remap bool) {
	b := p.Meta()
	b.SetRange(tx.Clamp(ph, b.StartTime, b.EndTime))
	if remap {
		if placed, ok := any(p).(models.Placed); ok {
			y := placed.VerticalPosition()
			*y = layout.RemapY(*y, tx.state.Layout)
		}
	}
	p.Normalize()
}
