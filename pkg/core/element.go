package core

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/loomui/loom/pkg/arena"
	"github.com/loomui/loom/pkg/errors"
	"github.com/loomui/loom/pkg/layout"
	"github.com/loomui/loom/pkg/reactive"
)

// elementID is a local alias so this package's signatures read as element
// identifiers rather than a generic arena type.
type elementID = arena.ElementId

// ElementKind tags which of the three closed element variants a slot holds.
// Unlike View, which is open (any type a user authors can implement it),
// the element storage itself is a closed union: every Element is exactly
// one of these three (§4.4).
type ElementKind int

const (
	KindComponent ElementKind = iota
	KindRender
	KindProvider
)

func (k ElementKind) String() string {
	switch k {
	case KindComponent:
		return "Component"
	case KindRender:
		return "Render"
	case KindProvider:
		return "Provider"
	default:
		return "Unknown"
	}
}

// Element is the tagged-union value stored in the tree's arena. Only the
// fields relevant to Kind are populated; the rest sit at their zero value.
type Element struct {
	kind     ElementKind
	view     View
	parentID elementID
	children []elementID
	slot     any
	depth    int
	dirty    bool
	mounted  bool

	// KindComponent payload.
	hooks       *reactive.HookStore
	unsubscribe func()
	// providerDeps is the set of provider ancestor ids this component
	// registered itself with via DependOnProvider on its last build, the
	// reverse index that lets a rebuild or an unmount remove this
	// component's id from those ancestors' dependents maps instead of
	// leaving a stale entry behind (§4.6's auto-unsubscribe requirement).
	providerDeps map[elementID]struct{}

	// KindRender payload.
	renderNode *layout.RenderNode

	// KindProvider payload.
	dependents map[elementID]struct{}
}

// Tree is the element tree: an arena of Elements plus the dirty-component
// worklist the build phase drains each frame (§4.5 step 1).
type Tree struct {
	arena    arena.Arena[Element]
	root     elementID
	dirty    []elementID
	dirtySet map[elementID]struct{}

	// nodeOwner maps a render node back to the Render element that owns it,
	// so a hit-test pass over pkg/layout's RenderNode tree (which carries no
	// knowledge of the element arena) can be translated back into the
	// element ids §6's DispatchPointerEvent hands to the gesture layer.
	nodeOwner map[*layout.RenderNode]elementID
}

// NewTree creates an empty tree with no mounted root.
func NewTree() *Tree {
	return &Tree{
		dirtySet:  make(map[elementID]struct{}),
		nodeOwner: make(map[*layout.RenderNode]elementID),
	}
}

// ElementForNode returns the id of the Render element owning node, if any.
func (t *Tree) ElementForNode(node *layout.RenderNode) (elementID, bool) {
	id, ok := t.nodeOwner[node]
	return id, ok
}

// Root returns the id of the mounted root element, or the nil id if none is
// mounted.
func (t *Tree) Root() elementID {
	return t.root
}

// View returns the current view of id, or nil if id is not live.
func (t *Tree) View(id elementID) View {
	el, ok := t.arena.Get(id)
	if !ok {
		return nil
	}
	return el.view
}

// Kind returns the element kind of id.
func (t *Tree) Kind(id elementID) ElementKind {
	el, ok := t.arena.Get(id)
	if !ok {
		return -1
	}
	return el.kind
}

// RenderNodeOf returns the layout.RenderNode backing id's subtree: id's own node
// if it is a Render element, or the single descendant's node reached by
// walking through Component/Provider wrapper elements otherwise (§4.3 "a
// component's render identity is its built child's"). Returns nil if no
// render-bearing descendant exists (e.g. a component whose Build returned
// nil).
func (t *Tree) RenderNodeOf(id elementID) *layout.RenderNode {
	el, ok := t.arena.Get(id)
	if !ok {
		return nil
	}
	if el.kind == KindRender {
		return el.renderNode
	}
	if len(el.children) == 0 {
		return nil
	}
	child := el.children[0]
	return t.RenderNodeOf(child)
}

// SetRoot mounts view as the tree's root element, replacing any existing
// root. This is the entry point the pipeline owner calls once at startup
// (§6's SetRoot).
func (t *Tree) SetRoot(view View) elementID {
	if !t.root.IsNil() {
		t.unmount(t.root)
	}
	t.root = t.mount(view, arena.NilElementId, nil)
	return t.root
}

// MarkNeedsBuild schedules id for rebuild on the next FlushBuild, the
// callback a component's tracked signal reads wire into reactive.BeginBuild.
func (t *Tree) MarkNeedsBuild(id elementID) {
	el, ok := t.arena.Get(id)
	if !ok || el.dirty {
		return
	}
	el.dirty = true
	if _, already := t.dirtySet[id]; already {
		return
	}
	t.dirtySet[id] = struct{}{}
	t.dirty = append(t.dirty, id)
}

// NeedsBuild reports whether any component is scheduled for rebuild.
func (t *Tree) NeedsBuild() bool {
	return len(t.dirty) > 0
}

// FlushBuild rebuilds every dirty component in shallowest-first (depth)
// order, repeating until no new dirty components are scheduled — a rebuild
// can itself mark an ancestor or a newly mounted descendant dirty, so a
// single pass is not always enough (§4.5 step 1, ported from the donor
// framework's BuildOwner.FlushBuild) — and returns how many components were
// actually rebuilt, for the pipeline owner's per-frame metrics (§2B).
func (t *Tree) FlushBuild() int {
	rebuilt := 0
	for len(t.dirty) > 0 {
		batch := t.dirty
		t.dirty = nil
		clear(t.dirtySet)

		depthOf := func(id elementID) int {
			el, ok := t.arena.Get(id)
			if !ok {
				return -1
			}
			return el.depth
		}
		for i := 1; i < len(batch); i++ {
			for j := i; j > 0 && depthOf(batch[j-1]) > depthOf(batch[j]); j-- {
				batch[j-1], batch[j] = batch[j], batch[j-1]
			}
		}

		for _, id := range batch {
			el, ok := t.arena.Get(id)
			if !ok || !el.mounted || el.kind != KindComponent {
				continue
			}
			t.rebuildComponent(id)
			rebuilt++
		}
	}
	return rebuilt
}

// mount inflates view into a fresh Element under parentID, recursively
// mounting its subtree, and returns the new id. Returns the nil id for a
// nil view.
func (t *Tree) mount(view View, parentID elementID, slot any) elementID {
	if view == nil {
		return arena.NilElementId
	}

	depth := 0
	if parent, ok := t.arena.Get(parentID); ok {
		depth = parent.depth + 1
	}

	var el Element
	el.view = view
	el.parentID = parentID
	el.slot = slot
	el.depth = depth

	switch view.(type) {
	case ComponentView:
		el.kind = KindComponent
		el.hooks = &reactive.HookStore{}
		el.providerDeps = make(map[elementID]struct{})
	case RenderView:
		el.kind = KindRender
	case ProviderView:
		el.kind = KindProvider
		el.dependents = make(map[elementID]struct{})
	default:
		panic(fmt.Sprintf("core: view %T implements none of ComponentView, RenderView, ProviderView", view))
	}

	id := t.arena.Insert(el)
	t.mountElement(id)
	return id
}

func (t *Tree) mountElement(id elementID) {
	el, _ := t.arena.Get(id)
	kind := el.kind

	switch kind {
	case KindComponent:
		el.mounted = true
		el.dirty = true
		t.rebuildComponent(id)

	case KindRender:
		rv := el.view.(RenderView)
		el.renderNode = layout.NewRenderNode(rv.CreateRender())
		el.mounted = true
		t.nodeOwner[el.renderNode] = id
		t.reconcileRenderChildren(id, rv.Children())

	case KindProvider:
		pv := el.view.(ProviderView)
		el.mounted = true
		childID := t.mount(pv.ChildView(), id, nil)
		el, _ = t.arena.Get(id)
		el.children = []elementID{childID}
	}

	t.refreshRenderLinkage(t.parentOf(id))
}

func (t *Tree) parentOf(id elementID) elementID {
	el, ok := t.arena.Get(id)
	if !ok {
		return arena.NilElementId
	}
	return el.parentID
}

// update reconciles id in place against newView (canReuse already verified
// by the caller) and the new slot.
func (t *Tree) update(id elementID, newView View, slot any) {
	el, _ := t.arena.Get(id)
	oldSlot := el.slot
	kind := el.kind
	el.slot = slot

	switch kind {
	case KindComponent:
		el.view = newView
		t.MarkNeedsBuild(id)

	case KindRender:
		rv := newView.(RenderView)
		el.view = newView
		node := el.renderNode
		rv.UpdateRender(node.Capability)
		node.MarkNeedsLayout()
		t.reconcileRenderChildren(id, rv.Children())

	case KindProvider:
		pv := newView.(ProviderView)
		old := el.view.(ProviderView)
		el.view = newView
		childID := arena.NilElementId
		if len(el.children) > 0 {
			childID = el.children[0]
		}
		newChildID := t.reconcileChild(id, childID, pv.ChildView(), nil)
		el, _ = t.arena.Get(id)
		el.children = []elementID{newChildID}
		if pv.ShouldNotify(old) {
			for dep := range el.dependents {
				t.MarkNeedsBuild(dep)
			}
		}
	}

	if !slotEqual(oldSlot, slot) {
		t.refreshRenderLinkage(t.parentOf(id))
	}
}

// unmount tears id's subtree down: walks it depth-first freeing every
// element's resources and arena slot, collecting each KindComponent's hook
// store along the way, then disposes all of them together through
// reactive.DisposeAll (§4.4 "a removed subtree disposes every hook store it
// contained") rather than one at a time, so a wide subtree's effect
// cleanups run concurrently instead of serially.
func (t *Tree) unmount(id elementID) {
	var stores []*reactive.HookStore
	t.teardown(id, &stores)
	if err := reactive.DisposeAll(context.Background(), stores); err != nil {
		errors.ReportBoundaryError(&errors.BoundaryError{
			Phase:      "unmount",
			Err:        err,
			StackTrace: errors.CaptureStack(),
			Timestamp:  time.Now(),
		})
	}
}

// teardown frees id's own resources and arena slot after recursing into its
// children, appending any KindComponent hook store to *stores instead of
// disposing it inline, and scrubs id out of every provider ancestor's
// dependents map it registered with, so a provider never retains a
// dependent id past that dependent's unmount (§4.6's auto-unsubscribe
// requirement; without this, pkg/arena's slot reuse on a future Insert could
// hand id to an unrelated element and a stale notify would rebuild it by
// mistake).
func (t *Tree) teardown(id elementID, stores *[]*reactive.HookStore) {
	el, ok := t.arena.Get(id)
	if !ok {
		return
	}
	kind := el.kind
	children := el.children
	unsubscribe := el.unsubscribe
	hooks := el.hooks
	renderNode := el.renderNode
	providerDeps := el.providerDeps

	for _, child := range children {
		t.teardown(child, stores)
	}

	switch kind {
	case KindComponent:
		if unsubscribe != nil {
			unsubscribe()
		}
		if hooks != nil {
			*stores = append(*stores, hooks)
		}
		for providerID := range providerDeps {
			if anc, ok := t.arena.Get(providerID); ok && anc.dependents != nil {
				delete(anc.dependents, id)
			}
		}
	case KindProvider:
		// dependents map is dropped with the element below.
	case KindRender:
		delete(t.nodeOwner, renderNode)
	}

	t.arena.Remove(id)
}

// clearProviderDeps removes id from every provider ancestor it registered
// with via DependOnProvider on a previous build and empties el's own record
// of them. Called right before a rebuild re-runs Build, mirroring the
// unsubscribe-before-rebuild treatment this tree already gives signal
// subscriptions (el.unsubscribe, above): a build that stops calling
// DependOnProvider for a given provider actually drops that registration
// instead of leaving a stale dependent entry behind, and DependOnProvider
// repopulates both sides fresh as the new build runs.
func (t *Tree) clearProviderDeps(id elementID, el *Element) {
	for providerID := range el.providerDeps {
		if anc, ok := t.arena.Get(providerID); ok && anc.dependents != nil {
			delete(anc.dependents, id)
		}
	}
	clear(el.providerDeps)
}

// rebuildComponent re-invokes a component's Build under reactive tracking,
// recovering from and reporting a build panic without aborting the frame
// (§9 open-question decision: recovery is per-component, not per-frame).
func (t *Tree) rebuildComponent(id elementID) {
	el, ok := t.arena.Get(id)
	if !ok || !el.mounted || !el.dirty {
		return
	}
	el.dirty = false
	cv := el.view.(ComponentView)
	hooks := el.hooks
	if el.unsubscribe != nil {
		el.unsubscribe()
	}
	t.clearProviderDeps(id, el)

	hooks.Reset()
	reactive.BeginBuild(func() { t.MarkNeedsBuild(id) })

	built, panicked := t.safeBuild(id, cv)

	unsubscribe := reactive.EndBuild()
	hooks.Finish()

	el, ok = t.arena.Get(id)
	if !ok {
		return
	}
	el.unsubscribe = unsubscribe
	if panicked {
		t.refreshRenderLinkage(t.parentOf(id))
		return
	}

	childID := arena.NilElementId
	if len(el.children) > 0 {
		childID = el.children[0]
	}
	newChildID := t.reconcileChild(id, childID, built, nil)
	el, ok = t.arena.Get(id)
	if !ok {
		return
	}
	el.children = []elementID{newChildID}
	t.refreshRenderLinkage(id)
}

// safeBuild runs cv.Build with panic recovery, reporting a recovered panic
// through pkg/errors and leaving this component's child subtree untouched
// for this frame (its previous output keeps rendering) rather than
// propagating the panic up through the whole frame.
func (t *Tree) safeBuild(id elementID, cv ComponentView) (view View, panicked bool) {
	ctx := BuildContext{tree: t, self: id}
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			errors.ReportBoundaryError(&errors.BoundaryError{
				Phase:      "build",
				Widget:     reflect.TypeOf(cv).String(),
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			})
		}
	}()
	view = cv.Build(ctx)
	return view, false
}

// reconcileRenderChildren reconciles a Render element's child views and
// pushes the resulting render-node list down into its RenderNode, enforcing
// the capability's declared Arity (§4.3's arity contract).
func (t *Tree) reconcileRenderChildren(id elementID, newViews []View) {
	el, _ := t.arena.Get(id)
	oldChildren := el.children
	newChildren := t.reconcileChildren(id, oldChildren, newViews)

	el, _ = t.arena.Get(id)
	el.children = newChildren
	node := el.renderNode

	childNodes := make([]*layout.RenderNode, 0, len(newChildren))
	for _, cid := range newChildren {
		if n := t.RenderNodeOf(cid); n != nil {
			childNodes = append(childNodes, n)
		}
	}

	if !node.Capability.Arity().Matches(len(childNodes)) {
		err := fmt.Errorf("arity mismatch: %T declares %s but got %d children",
			node.Capability, node.Capability.Arity(), len(childNodes))
		errors.ReportBoundaryError(&errors.BoundaryError{
			Phase:        "mount",
			RenderObject: reflect.TypeOf(node.Capability).String(),
			Err:          err,
			StackTrace:   errors.CaptureStack(),
			Timestamp:    time.Now(),
		})
		if DebugMode {
			panic(err)
		}
	}
	node.SetChildren(childNodes)
}

// refreshRenderLinkage walks up from id to the nearest Render ancestor (id
// itself if it is one) and recomputes that ancestor's render-node child
// list from its current element children. Recomputing wholesale rather than
// incrementally patching (insert/remove/move, the donor framework's
// approach) is simpler and just as correct at the child-list sizes this
// tree deals with, since it is always called after a reconciliation pass
// that already settled the element-level child list.
func (t *Tree) refreshRenderLinkage(id elementID) {
	if id.IsNil() {
		return
	}
	el, ok := t.arena.Get(id)
	if !ok {
		return
	}
	if el.kind != KindRender {
		t.refreshRenderLinkage(el.parentID)
		return
	}

	node := el.renderNode
	childNodes := make([]*layout.RenderNode, 0, len(el.children))
	for _, cid := range el.children {
		if n := t.RenderNodeOf(cid); n != nil {
			childNodes = append(childNodes, n)
		}
	}
	node.SetChildren(childNodes)
}
