package layout

import "github.com/loomui/loom/pkg/graphics"

// Size and Offset are re-exported from pkg/graphics so render implementations
// don't need to import both packages for every signature in this file.
type Size = graphics.Size
type Offset = graphics.Offset
type Layer = graphics.Layer

// Arity describes the child-count category a Render implementation accepts.
// Exact(n) covers leaves (n=0), single-child wrappers (n=1), and fixed
// fan-out renders (n>=2); Variable accepts any count.
type Arity struct {
	exact    int
	variable bool
}

// ExactArity returns an arity requiring exactly n children.
func ExactArity(n int) Arity {
	return Arity{exact: n}
}

// VariableArity returns an arity accepting any number of children.
func VariableArity() Arity {
	return Arity{variable: true}
}

// Matches reports whether count satisfies the arity.
func (a Arity) Matches(count int) bool {
	if a.variable {
		return true
	}
	return count == a.exact
}

func (a Arity) String() string {
	if a.variable {
		return "Variable"
	}
	switch a.exact {
	case 0:
		return "Exact(0)"
	case 1:
		return "Exact(1)"
	default:
		return "Exact(n)"
	}
}

// Render is the capability a render element's payload must satisfy: layout,
// paint, arity, and hit-testing. The set of Render implementations is open
// (unlike the closed Element variant set) — this is the dynamically
// dispatched half of the architecture described in §9's design notes.
type Render interface {
	// Layout reads ctx.Constraints() and the ordered child list, may call
	// ctx.LayoutChild to recurse, and must return a size satisfying the
	// incoming constraints. Must not mutate the element tree.
	Layout(ctx *LayoutContext) Size

	// Paint emits a layer subtree at ctx.Offset(), may call ctx.PaintChild to
	// recurse. Must not trigger layout.
	Paint(ctx *PaintContext) *Layer

	// Arity returns this render's required child count.
	Arity() Arity

	// HitTest reports whether pos (in this render's local coordinate space)
	// hits this render. The default policy is a bounds check against the
	// render's last computed size; implementations needing precise hit
	// regions (e.g. circular buttons) override it.
	HitTest(pos Offset, size Size) bool
}

// MetadataProvider is implemented by a wrapper Render that carries
// parent-readable metadata (flex factor, stack positioning, ...). A parent
// render reads it through LayoutContext.ChildMetadata, which type-asserts the
// result against the metadata type it expects.
type MetadataProvider interface {
	Metadata() any
}

// IntrinsicWidther and IntrinsicHeighther are optional capabilities a Render
// may additionally implement to report intrinsic sizing for a given
// cross-axis extent, per §4.3's "optional intrinsic width/height" clause.
type IntrinsicWidther interface {
	IntrinsicWidth(height float64) float64
}

type IntrinsicHeighther interface {
	IntrinsicHeight(width float64) float64
}

// BoundsHitTest is the default hit-test policy: pos is inside [0, size).
func BoundsHitTest(pos Offset, size Size) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < size.Width && pos.Y < size.Height
}
