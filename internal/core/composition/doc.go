// Package composition owns the timeline collections and every write to them.
//
// All writes go through Composition.Apply, which serialises commands behind a
// single mutex, snapshots the undoable part of the state (layout, filters and
// text overlays) before a command runs, and keeps the snapshot only when the
// command reports a change. Change events are published after the lock is
// released.
package composition
