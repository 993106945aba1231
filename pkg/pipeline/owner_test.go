package pipeline

import (
	"testing"

	"github.com/loomui/loom/pkg/core"
	"github.com/loomui/loom/pkg/layout"
	"github.com/loomui/loom/pkg/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fixtures -------------------------------------------------------------

// leafRender is a fixed-size leaf Render capability, used to anchor a
// render subtree small enough to reason about frame-by-frame.
type leafRender struct {
	size layout.Size
}

func (r *leafRender) Layout(ctx *layout.LayoutContext) layout.Size {
	return ctx.Constraints().Constrain(r.size)
}
func (r *leafRender) Paint(ctx *layout.PaintContext) *layout.Layer {
	return layout.ContainerLayer()
}
func (r *leafRender) Arity() layout.Arity { return layout.ExactArity(0) }
func (r *leafRender) HitTest(pos layout.Offset, size layout.Size) bool {
	return layout.BoundsHitTest(pos, size)
}

// box is a RenderView leaf with no children, analogous to a SizedBox.
type box struct {
	size layout.Size
}

func (box) Key() any                    { return nil }
func (b box) CreateRender() layout.Render { return &leafRender{size: b.size} }
func (b box) UpdateRender(r layout.Render) {
	r.(*leafRender).size = b.size
}
func (box) Children() []core.View { return nil }

// counter is a ComponentView holding a signal; writing to the captured
// handle drives a rebuild the next frame, exercising RunFrame's build phase.
type counter struct {
	initial  int
	captured *reactive.Signal[int]
}

func (counter) Key() any { return nil }

func (c counter) Build(ctx core.BuildContext) core.View {
	count := core.UseState(ctx, c.initial)
	if c.captured != nil {
		*c.captured = count
	}
	return box{size: layout.Size{Width: float64(count.Get()), Height: 10}}
}

// stackBox paints two fixed-size children at configured offsets, used to
// exercise DispatchPointerEvent's element-id translation.
type stackBoxRender struct {
	size      layout.Size
	childOffs []layout.Offset
}

func (s *stackBoxRender) Layout(ctx *layout.LayoutContext) layout.Size {
	for _, child := range ctx.Children() {
		ctx.LayoutChild(child, layout.Tight(layout.Size{Width: 20, Height: 20}))
	}
	return s.size
}
func (s *stackBoxRender) Paint(ctx *layout.PaintContext) *layout.Layer {
	for i, child := range ctx.Children() {
		off := s.childOffs[i]
		ctx.PaintChild(child, layout.Offset{X: ctx.Offset().X + off.X, Y: ctx.Offset().Y + off.Y})
	}
	return layout.ContainerLayer()
}
func (s *stackBoxRender) Arity() layout.Arity { return layout.VariableArity() }
func (s *stackBoxRender) HitTest(pos layout.Offset, size layout.Size) bool {
	return layout.BoundsHitTest(pos, size)
}

type stackBox struct {
	children []core.View
}

func (stackBox) Key() any { return nil }
func (s stackBox) CreateRender() layout.Render {
	return &stackBoxRender{
		size:      layout.Size{Width: 100, Height: 100},
		childOffs: []layout.Offset{{X: 0, Y: 0}, {X: 40, Y: 40}},
	}
}
func (stackBox) UpdateRender(r layout.Render) {}
func (s stackBox) Children() []core.View       { return s.children }

// --- tests -----------------------------------------------------------------

func TestRunFrameOnCleanTreeIsNoChangeAfterFirstFrame(t *testing.T) {
	o := NewOwner()
	o.SetRoot(box{size: layout.Size{Width: 50, Height: 50}})
	o.Resize(layout.Size{Width: 50, Height: 50})

	first, err := o.RunFrame()
	require.NoError(t, err)
	assert.True(t, first.Changed, "the first frame after Resize must paint")
	require.NotNil(t, first.Layer)

	second, err := o.RunFrame()
	require.NoError(t, err)
	assert.False(t, second.Changed, "a second frame with nothing dirty must be a no-change marker")
	assert.Equal(t, 0, second.ComponentsRebuilt)
}

func TestRunFrameRebuildsOnSignalWriteAndReportsCount(t *testing.T) {
	var signal reactive.Signal[int]
	o := NewOwner()
	o.SetRoot(counter{initial: 1, captured: &signal})
	o.Resize(layout.Size{Width: 100, Height: 100})

	_, err := o.RunFrame()
	require.NoError(t, err)

	signal.Set(9)
	out, err := o.RunFrame()
	require.NoError(t, err)
	assert.Equal(t, 1, out.ComponentsRebuilt, "the counter component must have been rebuilt")
	assert.True(t, out.Changed, "a rebuild that changes the render size must repaint")
}

func TestRunFrameErrorsWithoutMountedRoot(t *testing.T) {
	o := NewOwner()
	_, err := o.RunFrame()
	assert.Error(t, err)
}

func TestResizeSetsTightConstraintsOnRoot(t *testing.T) {
	o := NewOwner()
	o.SetRoot(box{size: layout.Size{Width: 500, Height: 500}})
	o.Resize(layout.Size{Width: 30, Height: 40})

	out, err := o.RunFrame()
	require.NoError(t, err)
	require.True(t, out.Changed)
	assert.Equal(t, layout.Size{Width: 30, Height: 40}, o.tree.RenderNodeOf(o.tree.Root()).LastSize())
}

func TestDispatchPointerEventTranslatesToElementIds(t *testing.T) {
	o := NewOwner()
	o.SetRoot(stackBox{children: []core.View{
		box{size: layout.Size{Width: 20, Height: 20}},
		box{size: layout.Size{Width: 20, Height: 20}},
	}})
	o.Resize(layout.Size{Width: 100, Height: 100})
	_, err := o.RunFrame()
	require.NoError(t, err)

	hits := o.DispatchPointerEvent(layout.Offset{X: 45, Y: 45})
	require.Len(t, hits, 2, "front child and the stack root itself")
	assert.Equal(t, layout.Offset{X: 5, Y: 5}, hits[0].Local)
	assert.False(t, hits[0].Element.IsNil())
	assert.False(t, hits[1].Element.IsNil())
	assert.NotEqual(t, hits[0].Element, hits[1].Element)
}

func TestRegistryExposesMetrics(t *testing.T) {
	o := NewOwner()
	o.SetRoot(box{size: layout.Size{Width: 10, Height: 10}})
	o.Resize(layout.Size{Width: 10, Height: 10})
	_, err := o.RunFrame()
	require.NoError(t, err)

	families, err := o.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
