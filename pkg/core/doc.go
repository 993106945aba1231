// Package core implements the element tree: the mutable, stateful layer
// between user-authored views and the render tree. It owns reconciliation
// (deciding which elements survive a rebuild and which are torn down),
// drives component builds against the reactive hook store, and threads
// render-tree linkage through to pkg/layout.
//
// Elements are stored in a single heterogeneous arena.Arena[Element] rather
// than as a tree of interface-typed pointers: every Element carries a kind
// tag (component, render, or provider) and only the payload fields that
// kind uses are populated. This keeps the tree cache-friendly and gives
// every element a stable, copyable arena.ElementId instead of a pointer.
package core

// DebugMode controls how a render element whose child count violates its
// declared Arity is handled: the mismatch is always reported through the
// error handler, and in debug mode it then panics. Recovered build panics carry
// a stack trace either way.
var DebugMode = true

// SetDebugMode enables or disables verbose error reporting.
func SetDebugMode(debug bool) {
	DebugMode = debug
}
