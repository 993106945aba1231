// Package reactive implements the framework's reactive runtime: signals, a
// single current-builder tracking slot, and the ordinal hook store the
// element tree drives during the build phase (§4.2).
package reactive

import (
	"reflect"
	"sync"
)

// Subscriber is notified when a signal's value changes. The pipeline owner
// subscribes a component's dirty-marking closure; tests subscribe plain
// callbacks.
type Subscriber func()

type subscription struct {
	id uint64
	fn Subscriber
}

// cell is the shared state behind every copy of a Signal[T] handle: a
// mutex-protected value, a reference count, and a subscriber set. The count
// starts at 1 and copying a handle does not increment it.
// Signal[T] itself is a small copyable struct wrapping a pointer to a cell,
// mirroring the donor reactive runtime's split between a Signal handle and
// its tracked value.
type cell[T any] struct {
	mu     sync.RWMutex
	value  T
	equals func(a, b T) bool

	subsMu  sync.Mutex
	subs    []subscription
	nextSub uint64

	refs int32
}

// Signal is a copyable handle to a shared reactive cell of type T. Reading
// through Get while a builder is active records this signal as one of that
// builder's dependencies; Set (when the value actually changes, per the
// configured Equals function) notifies every subscriber synchronously, since
// the entire build/layout/paint pipeline runs on a single driver goroutine
// and there is no batching phase to defer into (§4.2 edge case: "writes
// during build apply immediately").
type Signal[T any] struct {
	c *cell[T]
}

// CreateSignal creates a signal with the default equality function,
// reflect.DeepEqual, for any T (see defaultEquals).
func CreateSignal[T any](initial T) Signal[T] {
	return CreateSignalWithEquals(initial, defaultEquals[T]())
}

// CreateSignalWithEquals creates a signal with a caller-supplied equality
// function, letting a component opt a non-comparable T (e.g. a slice or
// struct with a custom notion of equality) into change suppression.
func CreateSignalWithEquals[T any](initial T, equals func(a, b T) bool) Signal[T] {
	return Signal[T]{c: &cell[T]{value: initial, equals: equals, refs: 1}}
}

// defaultEquals compares by reflect.DeepEqual so CreateSignal works for any
// T, comparable or not; a component holding a comparable T (the common
// case — ints, strings, small structs) can switch to CreateSignalWithEquals
// and ordinary == for a faster check.
func defaultEquals[T any]() func(a, b T) bool {
	return func(a, b T) bool {
		return reflect.DeepEqual(a, b)
	}
}

// Get returns the current value and, if a builder is currently running
// (tracked via the package-level current-builder slot), registers this
// signal as one of its dependencies so a future Set schedules that
// component for rebuild.
func (s Signal[T]) Get() T {
	if b := currentBuilder(); b != nil {
		b.track(s.c)
	}
	s.c.mu.RLock()
	defer s.c.mu.RUnlock()
	return s.c.value
}

// Peek returns the current value without recording a dependency, the escape
// hatch for reading a signal from inside a callback that should not make the
// enclosing component reactive to it.
func (s Signal[T]) Peek() T {
	s.c.mu.RLock()
	defer s.c.mu.RUnlock()
	return s.c.value
}

// Set assigns a new value, notifying subscribers if it differs from the
// current value under the signal's equality function.
func (s Signal[T]) Set(value T) {
	s.c.mu.Lock()
	if s.c.equals(s.c.value, value) {
		s.c.mu.Unlock()
		return
	}
	s.c.value = value
	s.c.mu.Unlock()
	s.c.notify()
}

// Update applies fn to the current value and assigns the result, a
// convenience over Peek+Set for read-modify-write updates.
func (s Signal[T]) Update(fn func(T) T) {
	s.c.mu.Lock()
	next := fn(s.c.value)
	changed := !s.c.equals(s.c.value, next)
	if changed {
		s.c.value = next
	}
	s.c.mu.Unlock()
	if changed {
		s.c.notify()
	}
}

// Subscribe registers fn to run on every change and returns an unsubscribe
// function. Unlike Get, Subscribe never participates in dependency tracking.
func (s Signal[T]) Subscribe(fn Subscriber) (unsubscribe func()) {
	return s.c.subscribeUntyped(fn)
}

// Dispose decrements the cell's reference count and clears the subscriber
// set once it reaches zero. Copies of a handle share one count that starts
// at 1, so the first Dispose through any copy clears the subscribers; a
// disposed cell whose Signal values are still copied around simply stops
// notifying.
func (s Signal[T]) Dispose() {
	s.c.subsMu.Lock()
	defer s.c.subsMu.Unlock()
	s.c.refs--
	if s.c.refs <= 0 {
		s.c.subs = nil
	}
}

func (c *cell[T]) notify() {
	c.subsMu.Lock()
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	c.subsMu.Unlock()
	for _, sub := range subs {
		sub.fn()
	}
}

// untypedCell is the dependency-tracking side of cell[T], type-erased so a
// builder can hold a mixed set of dependencies across different T.
type untypedCell interface {
	subscribeUntyped(Subscriber) func()
}

func (c *cell[T]) subscribeUntyped(fn Subscriber) func() {
	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs = append(c.subs, subscription{id: id, fn: fn})
	c.subsMu.Unlock()
	return func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		for i, sub := range c.subs {
			if sub.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				break
			}
		}
	}
}

var _ untypedCell = (*cell[int])(nil)
