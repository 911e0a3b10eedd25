// Package prefs stores editor preferences such as recently used templates
// and pinned effects.
//
// Preferences are plain key/value strings behind the Store interface, so the
// engine never depends on a storage medium. Memory, SQLite and Redis backends
// are provided.
package prefs
