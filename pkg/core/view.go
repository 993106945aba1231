package core

import (
	"reflect"

	"github.com/loomui/loom/pkg/layout"
)

// View is the common interface every user-authored node of the view tree
// implements. Key distinguishes siblings of the same concrete type across a
// rebuild (§4.4's keyed reconciliation); views without an identity return
// nil and are matched positionally instead.
type View interface {
	Key() any
}

// ComponentView builds a subtree from a BuildContext. It is the only View
// kind that reads signals and calls hooks — Build is invoked from inside a
// tracked reactive build (§4.2), so any Signal.Get call made directly or
// transitively during Build subscribes this component to that signal.
type ComponentView interface {
	View
	Build(ctx BuildContext) View
}

// RenderView owns a render capability (§3/§4.3) and an ordered list of child
// views. CreateRender is called once, at mount; UpdateRender is called on
// every reconciled update so the view can push new configuration into the
// existing capability (and must itself call MarkNeedsLayout/MarkNeedsPaint
// on any owned layout.RenderNode state it mutates directly — the element
// tree unconditionally marks the node needing layout after UpdateRender
// returns, so under-invalidation is not possible, only a wasted relayout).
type RenderView interface {
	View
	CreateRender() layout.Render
	UpdateRender(render layout.Render)
	Children() []View
}

// ProviderView injects a value visible to every descendant via
// DependOnProvider, the renamed form of the donor framework's inherited
// widget (§4.6). ShouldNotify decides whether replacing old with this view
// should wake registered dependents.
type ProviderView interface {
	View
	ChildView() View
	ShouldNotify(old ProviderView) bool
}

// IndexedSlot is the positional identity a multi-child RenderView assigns
// each child during reconciliation, letting a child distinguish "I moved"
// from "I was replaced" the same way the donor framework's slot mechanism
// does.
type IndexedSlot struct {
	Index           int
	PreviousSibling elementID
}

func slotEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	sa, aOK := a.(IndexedSlot)
	sb, bOK := b.(IndexedSlot)
	if aOK && bOK {
		return sa == sb
	}
	return a == b
}

// canReuse reports whether an existing element can be updated in place to
// represent next rather than being torn down and remounted: same concrete
// Go type and an equal Key, exactly the donor framework's canUpdateWidget
// rule (§4.4 "same type and key reuses the element").
func canReuse(existing, next View) bool {
	if existing == nil || next == nil {
		return false
	}
	if reflect.TypeOf(existing) != reflect.TypeOf(next) {
		return false
	}
	return reflect.DeepEqual(existing.Key(), next.Key())
}

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}
