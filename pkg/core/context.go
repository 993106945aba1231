package core

import "github.com/loomui/loom/pkg/reactive"

// BuildContext is the handle a ComponentView.Build receives: its own
// element id within the tree, used to call hooks and walk ancestors for
// provider lookup (§4.6).
type BuildContext struct {
	tree *Tree
	self elementID
}

// Self returns the id of the component element being built.
func (ctx BuildContext) Self() elementID {
	return ctx.self
}

func (ctx BuildContext) hooks() *reactive.HookStore {
	el, ok := ctx.tree.arena.Get(ctx.self)
	if !ok {
		return &reactive.HookStore{}
	}
	return el.hooks
}

// UseState returns a signal holding per-component state, created once on
// the first build and reused on every subsequent one (§4.2).
func UseState[T any](ctx BuildContext, initial T) reactive.Signal[T] {
	return reactive.UseState(ctx.hooks(), initial)
}

// UseMemo recomputes compute's result only when deps changes across builds.
func UseMemo[T any](ctx BuildContext, deps []any, compute func() T) T {
	return reactive.UseMemo(ctx.hooks(), deps, compute)
}

// UseEffect runs fn when deps differ from the previous build's, cleaning up
// the prior run first. fn runs synchronously during the build, inside the
// UseEffect call, not after the build has finished.
func UseEffect(ctx BuildContext, deps []any, fn func() (cleanup func())) {
	reactive.UseEffect(ctx.hooks(), deps, fn)
}

// DependOnProvider walks from ctx.Self() up through ancestor elements for
// the nearest ProviderView assignable to T, registers ctx.Self() as a
// dependent of it (so a future update that calls ShouldNotify true
// schedules this component for rebuild), and returns that provider's
// current value. The zero value and false are returned if no ancestor
// provider of type T exists. The registration is also recorded on the
// calling component's own element (providerDeps) so a later rebuild or an
// unmount can remove it from the provider's dependents set again instead of
// leaving it there forever (§4.6's auto-unsubscribe requirement).
func DependOnProvider[T ProviderView](ctx BuildContext) (T, bool) {
	var zero T
	tree := ctx.tree
	id := ctx.self

	self, ok := tree.arena.Get(ctx.self)
	if !ok {
		return zero, false
	}

	for {
		el, ok := tree.arena.Get(id)
		if !ok {
			return zero, false
		}
		id = el.parentID
		if id.IsNil() {
			return zero, false
		}
		anc, ok := tree.arena.Get(id)
		if !ok {
			return zero, false
		}
		if anc.kind != KindProvider {
			continue
		}
		typed, ok := anc.view.(T)
		if !ok {
			continue
		}
		anc.dependents[ctx.self] = struct{}{}
		if self.providerDeps != nil {
			self.providerDeps[id] = struct{}{}
		}
		return typed, true
	}
}
