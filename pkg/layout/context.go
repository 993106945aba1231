package layout

import (
	"fmt"
	"sync/atomic"
)

// DebugMode controls whether a child returning a size that violates the
// constraints it was laid out under panics (a programmer error, §7) rather
// than being silently clamped. Production builds typically turn this off.
var DebugMode = true

// SetDebugMode enables or disables the debug-mode constraint-violation panic.
func SetDebugMode(debug bool) {
	DebugMode = debug
}

// cacheHits and cacheMisses count layout-cache outcomes across every
// RenderNode in the process, read by the pipeline owner once per frame to
// derive its own per-frame deltas for the layout-cache-hit/miss counters
// (§2B/§4.5).
var (
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64
)

// CacheStats returns the cumulative layout-cache hit/miss counts.
func CacheStats() (hits, misses uint64) {
	return cacheHits.Load(), cacheMisses.Load()
}

// LayoutContext is the read-only handle a Render.Layout implementation
// receives: the incoming constraints, the ordered child list, and a
// LayoutChild method that recursively lays out a child while consulting its
// layout cache.
type LayoutContext struct {
	node        *RenderNode
	constraints Constraints
}

func newLayoutContext(node *RenderNode, constraints Constraints) *LayoutContext {
	return &LayoutContext{node: node, constraints: constraints}
}

// Constraints returns the constraints this layout call must satisfy.
func (ctx *LayoutContext) Constraints() Constraints {
	return ctx.constraints
}

// Children returns the ordered child nodes.
func (ctx *LayoutContext) Children() []*RenderNode {
	return ctx.node.Children()
}

// ChildMetadata downcasts child's capability to the metadata a wrapper
// render exposes about it (flex factor, stack positioning, ...), returning
// nil if the child carries none.
func (ctx *LayoutContext) ChildMetadata(child *RenderNode) any {
	if provider, ok := child.Capability.(MetadataProvider); ok {
		return provider.Metadata()
	}
	return nil
}

// LayoutChild lays out child under the given constraints, consulting and
// updating its layout cache (§4.4/§4.5): a cache hit with matching
// constraints and no needs-layout flag returns the cached size without
// re-invoking the child's Layout.
func (ctx *LayoutContext) LayoutChild(child *RenderNode, constraints Constraints) Size {
	if !child.needsLayout {
		if size, ok := child.lookupCache(constraints); ok {
			cacheHits.Add(1)
			return size
		}
	}
	cacheMisses.Add(1)
	childCtx := newLayoutContext(child, constraints)
	size := child.Capability.Layout(childCtx)
	if !constraints.Satisfies(size) {
		if DebugMode {
			panic(fmt.Sprintf("layout: %T.Layout returned %+v, which violates constraints %+v", child.Capability, size, constraints))
		}
		size = constraints.Constrain(size)
	}
	child.storeCache(constraints, size)
	child.lastSize = size
	child.clearDirtyLayout()
	return size
}

// LayoutRoot lays out the root render node under the window's tight
// constraints, the entry point the pipeline owner's layout phase calls
// (§4.5 step 2) rather than going through a parent's LayoutChild.
func LayoutRoot(node *RenderNode, constraints Constraints) Size {
	ctx := newLayoutContext(node, constraints)
	size := node.Capability.Layout(ctx)
	node.storeCache(constraints, size)
	node.lastSize = size
	node.clearDirtyLayout()
	return size
}

// PaintRoot paints the root render node at absolute offset (0, 0), the entry
// point the pipeline owner's paint phase calls (§4.5 step 2).
func PaintRoot(node *RenderNode) *Layer {
	ctx := newPaintContext(node, Offset{})
	layer := node.Capability.Paint(ctx)
	node.lastOffset = Offset{}
	node.cachedLayer = layer
	node.clearDirtyPaint()
	return layer
}

// PaintContext is the read-only handle a Render.Paint implementation
// receives: the element's absolute offset and a PaintChild method to
// recursively paint children at arbitrary absolute positions.
type PaintContext struct {
	node   *RenderNode
	offset Offset
}

func newPaintContext(node *RenderNode, offset Offset) *PaintContext {
	return &PaintContext{node: node, offset: offset}
}

// Offset returns the absolute offset this element is being painted at.
func (ctx *PaintContext) Offset() Offset {
	return ctx.offset
}

// Children returns the ordered child nodes.
func (ctx *PaintContext) Children() []*RenderNode {
	return ctx.node.Children()
}

// PaintChild recursively paints child at the given absolute offset,
// returning its layer subtree. Children never read their own position; they
// only receive it, per §4.3's edge-case policy on absolute offsets.
func (ctx *PaintContext) PaintChild(child *RenderNode, absoluteOffset Offset) *Layer {
	childCtx := newPaintContext(child, absoluteOffset)
	layer := child.Capability.Paint(childCtx)
	child.lastOffset = absoluteOffset
	child.cachedLayer = layer
	child.clearDirtyPaint()
	return layer
}
