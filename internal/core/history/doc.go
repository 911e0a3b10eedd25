// Package history keeps a bounded stack of state snapshots for undo.
//
// Snapshots live in a fixed ring: once the stack is full each push overwrites
// the oldest entry. There is no redo; a popped snapshot is gone.
package history
