package composition

import (
	"encoding/json"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/timeline/internal/core/events"
	"github.com/zeusync/timeline/internal/core/history"
	"github.com/zeusync/timeline/internal/core/layout"
	"github.com/zeusync/timeline/internal/core/models"
	"github.com/zeusync/timeline/internal/core/observability/log"
	"github.com/zeusync/timeline/internal/core/templates"
	"github.com/zeusync/timeline/internal/core/timing"
)

// Composition is the single writer of a timeline. All methods are safe for
// concurrent use.
type Composition struct {
	mu    sync.Mutex
	state State
	// seq is the last insertion sequence handed out.
	seq     uint64
	version uint64

	history      *history.Manager[Snapshot]
	historyDepth int

	ids         func() models.ID
	tracks      timing.TrackRegistry
	guard       InsertGuard
	minDuration float64

	log log.Log
	pub events.Publisher
}

type Option func(*Composition)

// WithHistoryDepth bounds the undo stack.
func WithHistoryDepth(depth int) Option {
	return func(c *Composition) { c.historyDepth = depth }
}

// WithIDGenerator replaces the UUID generator. The function must be safe for
// concurrent use and must not repeat values.
func WithIDGenerator(fn func() models.ID) Option {
	return func(c *Composition) {
		if fn != nil {
			c.ids = fn
		}
	}
}

func WithTrackRegistry(r timing.TrackRegistry) Option {
	return func(c *Composition) {
		if r != nil {
			c.tracks = r
		}
	}
}

// WithInsertGuard installs a check run before every insert.
func WithInsertGuard(g InsertGuard) Option {
	return func(c *Composition) { c.guard = g }
}

// WithMinDuration sets the shortest range an entity may have.
func WithMinDuration(d float64) Option {
	return func(c *Composition) {
		if d > 0 {
			c.minDuration = d
		}
	}
}

// WithLayout sets the initial layout.
func WithLayout(l layout.Layout) Option {
	return func(c *Composition) { c.state.Layout = l.Or(c.state.Layout) }
}

func WithLogger(l log.Log) Option {
	return func(c *Composition) {
		if l != nil {
			c.log = l
		}
	}
}

// WithPublisher receives a change event after every committed write.
func WithPublisher(p events.Publisher) Option {
	return func(c *Composition) {
		if p != nil {
			c.pub = p
		}
	}
}

// New returns an empty composition.
func New(opts ...Option) *Composition {
	c := &Composition{
		state: State{
			Layout:  layout.Auto,
			Filters: models.DefaultFilterParams(),
		},
		historyDepth: history.DefaultDepth,
		ids:          templates.NewID,
		tracks:       timing.DefaultTracks(),
		minDuration:  timing.MinDuration,
		log:          log.Nop(),
		pub:          events.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.history = history.New[Snapshot](c.historyDepth, nil)
	return c
}

// Apply runs cmd as one atomic write. When cmd may write an undoable slice,
// the pre-command snapshot is pushed to history, but only if cmd reports a
// change. The command works on a copy of the state that is committed only
// when it reports a change, so a command that fails or panics leaves the
// composition untouched and unlocked.
func (c *Composition) Apply(cmd Command) bool {
	change, ok := c.commit(cmd)
	if !ok {
		return false
	}

	c.log.Debug("command applied",
		log.Command(cmd.Name()),
		log.Uint64("version", change.Version),
		log.Int("entities", len(change.IDs)),
	)
	c.publish(events.TypeChanged, change)
	return true
}

func (c *Composition) commit(cmd Command) (events.Change, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tracked := cmd.Slices()&Tracked != 0
	var before Snapshot
	if tracked {
		before = c.state.snapshot().Clone()
	}

	next := c.state
	tx := &Tx{c: c, state: &next}
	if !cmd.Apply(tx) {
		return events.Change{}, false
	}

	c.state = next
	if tracked {
		c.history.Push(before)
	}
	c.version++
	return events.Change{
		Version:  c.version,
		Command:  cmd.Name(),
		Kinds:    tx.kinds,
		Settings: tx.settings,
		IDs:      tx.ids,
	}, true
}

// Undo restores the newest snapshot. It reports false, and changes nothing,
// when the history is empty. There is no redo.
func (c *Composition) Undo() bool {
	change, remaining, ok := c.undo()
	if !ok {
		return false
	}

	c.log.Info("undo", log.Uint64("version", change.Version), log.Int("remaining", remaining))
	c.publish(events.TypeUndone, change)
	return true
}

func (c *Composition) undo() (events.Change, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	change := events.Change{Command: "undo"}
	ok := c.history.Undo(func(snap Snapshot) {
		change.Kinds, change.Settings = c.state.snapshot().diff(snap)
		c.state.restore(snap)
	})
	if !ok {
		return events.Change{}, 0, false
	}
	c.version++
	change.Version = c.version
	return change, c.history.Len(), true
}

func (c *Composition) CanUndo() bool { return c.history.Len() > 0 }

func (c *Composition) HistoryLen() int { return c.history.Len() }

// Version increases with every committed write, undo and load.
func (c *Composition) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// State returns a copy of the whole composition.
func (c *Composition) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Fingerprint hashes the canonical JSON form of the state. Equal states have
// equal fingerprints.
func (c *Composition) Fingerprint() uint64 {
	state := c.State()
	return Fingerprint(state)
}

// Fingerprint hashes the canonical JSON form of s. Empty and nil
// collections hash the same.
func Fingerprint(s State) uint64 {
	data, err := json.Marshal(s.canonical())
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}

// VersionedState returns a copy of the state together with the version it
// was read at.
func (c *Composition) VersionedState() (State, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone(), c.version
}

// Load replaces the whole composition, e.g. after reading a project from an
// external store. Entities are normalised and clamped to ph, duplicate IDs
// keep their first occurrence, missing IDs are generated and segments are
// re-sorted. History is cleared. Load returns the number of dropped entities.
func (c *Composition) Load(ph timing.Playhead, s State) int {
	change, total, dropped := c.load(ph, s)

	fields := []log.Field{log.Uint64("version", change.Version), log.Int("entities", total)}
	if dropped > 0 {
		c.log.Warn("composition loaded with duplicate ids", append(fields, log.Int("dropped", dropped))...)
	} else {
		c.log.Info("composition loaded", fields...)
	}
	c.publish(events.TypeLoaded, change)
	return dropped
}

func (c *Composition) load(ph timing.Playhead, s State) (change events.Change, total, dropped int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := State{
		Layout:  s.Layout.Or(layout.Auto),
		Filters: s.Filters.Normalized(),
	}
	tx := &Tx{c: c, state: &next}

	var maxSeq uint64
	next.Segments = loadEntities(tx, s.Segments, ph, &maxSeq, &dropped)
	next.Texts = loadEntities(tx, s.Texts, ph, &maxSeq, &dropped)
	next.Shapes = loadEntities(tx, s.Shapes, ph, &maxSeq, &dropped)
	next.Images = loadEntities(tx, s.Images, ph, &maxSeq, &dropped)
	next.Gradients = loadEntities(tx, s.Gradients, ph, &maxSeq, &dropped)
	next.Effects = loadEntities(tx, s.Effects, ph, &maxSeq, &dropped)

	if maxSeq > c.seq {
		c.seq = maxSeq
	}
	fillSeq(tx, next.Segments)
	fillSeq(tx, next.Texts)
	fillSeq(tx, next.Shapes)
	fillSeq(tx, next.Images)
	fillSeq(tx, next.Gradients)
	fillSeq(tx, next.Effects)
	sortSegments(next.Segments)

	c.state = next
	c.history.Clear()
	c.version++
	change = events.Change{
		Version:  c.version,
		Command:  "load",
		Kinds:    models.Kinds(),
		Settings: events.AllSettings(),
	}
	return change, next.Len(), dropped
}

func (c *Composition) publish(typ string, change events.Change) {
	if err := c.pub.Publish(events.NewChange(typ, change)); err != nil {
		c.log.Warn("change handler failed", log.String("event", typ), log.Error(err))
	}
}
