// Package statemachine implements Rob Pike's state-function pattern behind
// a small thread-safe wrapper. States are functions over the owning entity;
// each returns the next state, and a nil state means the machine is done.
package statemachine

import "sync"

// StateFn is a state expressed as a function. It acts on the entity and
// returns the successor state, or nil to terminate.
type StateFn[T any] func(*T) StateFn[T]

// Machine drives an entity through StateFn transitions. The zero value is
// not usable; construct with New.
type Machine[T any] struct {
	mu      sync.RWMutex
	entity  *T
	current StateFn[T]
}

// New returns a machine positioned at the initial state.
func New[T any](entity *T, initial StateFn[T]) *Machine[T] {
	return &Machine[T]{entity: entity, current: initial}
}

// Step executes the current state once and transitions to whatever it
// returns. It is a no-op once the machine has terminated.
func (m *Machine[T]) Step() {
	m.mu.Lock()
	fn := m.current
	m.mu.Unlock()

	if fn == nil {
		return
	}
	next := fn(m.entity)

	m.mu.Lock()
	m.current = next
	m.mu.Unlock()
}

// Done reports whether the machine reached a terminal (nil) state.
func (m *Machine[T]) Done() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current == nil
}
