package layout

// RenderNode is one node of the render tree: a Render capability instance
// plus the bookkeeping §3/§4.4 require of it — an ordered child list, a
// layout cache keyed by exact-bit constraint equality, three independent
// dirty flags, and the last computed size/offset. The render tree mirrors
// the element tree's render-variant elements but is linked by RenderNode
// pointers rather than arena ids, the same separation the donor framework
// draws between its Element tree and its RenderObject tree — it lets this
// package stay independent of the element arena (a higher layer) while the
// element tree (pkg/core) owns the ElementId <-> RenderNode association.
type RenderNode struct {
	Capability Render

	parent   *RenderNode
	children []*RenderNode

	cache map[Constraints]Size

	needsLayout             bool
	needsPaint              bool
	needsCompositingRebuild bool

	lastSize   Size
	lastOffset Offset

	// IsRelayoutBoundary marks a node that absorbs needs-layout propagation
	// from its children (e.g. it imposes tight constraints on them
	// regardless of its own constraints). The root is always a boundary.
	IsRelayoutBoundary bool

	// IsRepaintBoundary marks a node as a repaint boundary (§6's
	// RepaintBoundary layer kind). Painting does not consult it: every
	// paint pass re-invokes Paint on each child, and a node's last layer is
	// recorded but not reused by an ancestor repaint.
	IsRepaintBoundary bool

	// PreserveLayoutCache, when true, keeps the layout cache across a
	// capability replacement instead of the conservative always-clear
	// default (§9 open-question decision).
	PreserveLayoutCache bool

	cachedLayer *Layer
}

// NewRenderNode wraps a Render capability in a fresh node with all dirty
// flags set, matching the "initializes dirty flags (all set)" mount rule of
// §4.4.
func NewRenderNode(capability Render) *RenderNode {
	return &RenderNode{
		Capability:  capability,
		cache:       make(map[Constraints]Size),
		needsLayout: true,
		needsPaint:  true,
	}
}

// Children returns the ordered child list.
func (n *RenderNode) Children() []*RenderNode {
	return n.children
}

// Parent returns the parent node, or nil at the root.
func (n *RenderNode) Parent() *RenderNode {
	return n.parent
}

// SetChildren replaces the child list wholesale, wiring parent pointers. Used
// by the element tree during reconciliation.
func (n *RenderNode) SetChildren(children []*RenderNode) {
	for _, c := range children {
		c.parent = n
	}
	n.children = children
	n.MarkNeedsLayout()
}

// ReplaceCapability swaps the render capability, clearing the layout cache
// and marking needs-layout unless PreserveLayoutCache opts out, in which
// case the cache is kept and only needs-paint is marked (§4.4 layout cache
// policy / §9 open question).
func (n *RenderNode) ReplaceCapability(capability Render) {
	n.Capability = capability
	if n.PreserveLayoutCache {
		n.MarkNeedsPaint()
		return
	}
	n.MarkNeedsLayout()
}

// NeedsLayout, NeedsPaint report the current dirty flags.
func (n *RenderNode) NeedsLayout() bool { return n.needsLayout }
func (n *RenderNode) NeedsPaint() bool  { return n.needsPaint }

// LastSize returns the size computed by the most recent Layout call.
func (n *RenderNode) LastSize() Size { return n.lastSize }

// MarkNeedsLayout sets needs-layout (and therefore needs-paint) on this node
// and propagates needs-paint-only up to the nearest relayout boundary (root
// by default), per §4.5's dirty propagation rules.
func (n *RenderNode) MarkNeedsLayout() {
	n.needsLayout = true
	n.needsPaint = true
	n.cache = make(map[Constraints]Size)
	for p := n.parent; p != nil; p = p.parent {
		if p.needsPaint {
			break
		}
		p.needsPaint = true
		if p.IsRelayoutBoundary {
			break
		}
	}
}

// MarkNeedsPaint sets needs-paint on this node only and propagates
// needs-paint upward to the root, without touching layout or the cache.
func (n *RenderNode) MarkNeedsPaint() {
	n.needsPaint = true
	for p := n.parent; p != nil; p = p.parent {
		if p.needsPaint {
			break
		}
		p.needsPaint = true
	}
}

// lookupCache returns a cached size for exactly-equal constraints.
func (n *RenderNode) lookupCache(c Constraints) (Size, bool) {
	s, ok := n.cache[c]
	return s, ok
}

func (n *RenderNode) storeCache(c Constraints, s Size) {
	n.cache[c] = s
}

// clearDirtyLayout marks layout clean (paint remains dirty until the paint
// phase visits this node).
func (n *RenderNode) clearDirtyLayout() {
	n.needsLayout = false
}

func (n *RenderNode) clearDirtyPaint() {
	n.needsPaint = false
}
