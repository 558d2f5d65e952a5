// Package viewstate holds the optimistic list state machine shared by the
// product and category screens. A mutation is staged against the in-memory
// list before the remote write is issued, then either confirmed with the
// finalized record or reverted to the pre-mutation state.
//
// Staged mutations are serialized per list: Stage* blocks until the previous
// mutation has been confirmed or reverted, so a snapshot can never be
// clobbered by a second edit racing the first. Reads do not block.
package viewstate

import "sync"

// List owns an ordered in-memory slice of records keyed by a string
// identifier. Observers are notified with a copy of the list after every
// committed change (replace, stage, confirm, revert).
type List[T any] struct {
	stageMu sync.Mutex

	mu        sync.Mutex
	id        func(T) string
	items     []T
	observers []func([]T)
}

func NewList[T any](id func(T) string) *List[T] {
	return &List[T]{id: id}
}

// Subscribe registers an observer. Observers are invoked outside the list
// lock, in registration order, with their own copy of the items.
func (l *List[T]) Subscribe(fn func([]T)) {
	l.mu.Lock()
	l.observers = append(l.observers, fn)
	l.mu.Unlock()
}

func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

func (l *List[T]) Find(id string) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, item := range l.items {
		if l.id(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Replace swaps the whole list, e.g. after a refresh from the backend.
func (l *List[T]) Replace(items []T) {
	l.mu.Lock()
	l.items = append([]T(nil), items...)
	snapshot := append([]T(nil), l.items...)
	observers := l.observers
	l.mu.Unlock()

	notify(observers, snapshot)
}

// Mutation tracks one staged optimistic change until it reaches a terminal
// state. Confirm and Revert are idempotent; the first call wins.
type Mutation[T any] struct {
	list     *List[T]
	stagedID string
	// snapshot holds the entire pre-mutation list for update/remove
	// staging; inserts carry no snapshot and revert by removing the
	// staged record.
	snapshot    []T
	hasSnapshot bool
	done        bool
}

// StageInsert appends a placeholder record and returns the pending mutation.
// The placeholder is tracked by its client-generated identifier.
func (l *List[T]) StageInsert(placeholder T) *Mutation[T] {
	l.stageMu.Lock()

	l.mu.Lock()
	l.items = append(l.items, placeholder)
	snapshot := append([]T(nil), l.items...)
	observers := l.observers
	l.mu.Unlock()

	notify(observers, snapshot)
	return &Mutation[T]{list: l, stagedID: l.id(placeholder)}
}

// StageUpdate snapshots the entire list, then replaces the record matching
// the updated identifier in place.
func (l *List[T]) StageUpdate(updated T) *Mutation[T] {
	l.stageMu.Lock()

	id := l.id(updated)
	l.mu.Lock()
	prior := append([]T(nil), l.items...)
	for i := range l.items {
		if l.id(l.items[i]) == id {
			l.items[i] = updated
		}
	}
	snapshot := append([]T(nil), l.items...)
	observers := l.observers
	l.mu.Unlock()

	notify(observers, snapshot)
	return &Mutation[T]{list: l, stagedID: id, snapshot: prior, hasSnapshot: true}
}

// StageRemove snapshots the entire list, then drops the record matching id.
func (l *List[T]) StageRemove(id string) *Mutation[T] {
	l.stageMu.Lock()

	l.mu.Lock()
	prior := append([]T(nil), l.items...)
	kept := l.items[:0]
	for _, item := range l.items {
		if l.id(item) != id {
			kept = append(kept, item)
		}
	}
	l.items = kept
	snapshot := append([]T(nil), l.items...)
	observers := l.observers
	l.mu.Unlock()

	notify(observers, snapshot)
	return &Mutation[T]{list: l, stagedID: id, snapshot: prior, hasSnapshot: true}
}

// Confirm makes the staged state terminal as-is.
func (m *Mutation[T]) Confirm() {
	if m.done {
		return
	}
	m.done = true
	m.list.stageMu.Unlock()
}

// ConfirmWith replaces the staged record with the finalized one (real image
// URLs, server-assigned fields) and makes the state terminal.
func (m *Mutation[T]) ConfirmWith(final T) {
	if m.done {
		return
	}
	m.done = true

	l := m.list
	l.mu.Lock()
	for i := range l.items {
		if l.id(l.items[i]) == m.stagedID {
			l.items[i] = final
		}
	}
	snapshot := append([]T(nil), l.items...)
	observers := l.observers
	l.mu.Unlock()

	notify(observers, snapshot)
	l.stageMu.Unlock()
}

// Revert restores the pre-mutation view: inserts drop the staged record,
// updates and removals restore the exact prior list.
func (m *Mutation[T]) Revert() {
	if m.done {
		return
	}
	m.done = true

	l := m.list
	l.mu.Lock()
	if m.hasSnapshot {
		l.items = append([]T(nil), m.snapshot...)
	} else {
		kept := l.items[:0]
		for _, item := range l.items {
			if l.id(item) != m.stagedID {
				kept = append(kept, item)
			}
		}
		l.items = kept
	}
	snapshot := append([]T(nil), l.items...)
	observers := l.observers
	l.mu.Unlock()

	notify(observers, snapshot)
	l.stageMu.Unlock()
}

func notify[T any](observers []func([]T), items []T) {
	for _, fn := range observers {
		fn(append([]T(nil), items...))
	}
}
