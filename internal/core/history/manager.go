package history

import (
	"sync"
	"sync/atomic"
)

// DefaultDepth is the number of snapshots kept when no depth is given.
const DefaultDepth = 50

// Manager is a ring buffer of snapshots of T. Snapshots are cloned on the way
// in and on the way out, so callers never share memory with the stack.
type Manager[T any] struct {
	mu      sync.Mutex
	clone   func(T) T
	history []T
	// next is the slot the next push writes to.
	next  int
	count int

	restoring atomic.Bool
}

// New returns a manager keeping at most depth snapshots. A non-positive depth
// means DefaultDepth. A nil clone stores values as they are.
func New[T any](depth int, clone func(T) T) *Manager[T] {
	if depth <= 0 {
		depth = DefaultDepth
	}
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Manager[T]{
		clone:   clone,
		history: make([]T, depth),
	}
}

// Push records a snapshot. It is ignored while a restore is in progress and
// reports whether the snapshot was stored.
func (m *Manager[T]) Push(snapshot T) bool {
	if m.restoring.Load() {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.history[m.next] = m.clone(snapshot)
	m.next = (m.next + 1) % len(m.history)
	if m.count < len(m.history) {
		m.count++
	}
	return true
}

// Pop removes and returns the newest snapshot.
func (m *Manager[T]) Pop() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if m.count == 0 {
		return zero, false
	}
	m.next = (m.next - 1 + len(m.history)) % len(m.history)
	m.count--
	snapshot := m.history[m.next]
	m.history[m.next] = zero
	return snapshot, true
}

// Peek returns a copy of the newest snapshot without removing it.
func (m *Manager[T]) Peek() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T
	if m.count == 0 {
		return zero, false
	}
	return m.clone(m.history[(m.next-1+len(m.history))%len(m.history)]), true
}

func (m *Manager[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

func (m *Manager[T]) Cap() int {
	return len(m.history)
}

// Clear drops every snapshot.
func (m *Manager[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.history)
	m.next = 0
	m.count = 0
}

// Restoring reports whether a restore is running.
func (m *Manager[T]) Restoring() bool {
	return m.restoring.Load()
}

// Restore runs fn with pushes suppressed. Writes fn makes through the normal
// mutation path therefore do not land on the stack.
func (m *Manager[T]) Restore(fn func()) {
	m.restoring.Store(true)
	defer m.restoring.Store(false)
	fn()
}

// Undo pops the newest snapshot and hands it to apply with pushes suppressed.
func (m *Manager[T]) Undo(apply func(T)) bool {
	snapshot, ok := m.Pop()
	if !ok {
		return false
	}
	m.Restore(func() { apply(snapshot) })
	return true
}
