package pipeline

import (
	"github.com/loomui/loom/pkg/arena"
	"github.com/loomui/loom/pkg/graphics"
	"github.com/loomui/loom/pkg/layout"
)

// FrameOutput is what RunFrame hands back to the embedder (§6): either a
// freshly painted layer tree with Changed set, or a no-change marker when
// the paint phase found nothing dirty and reused the previous frame's
// output.
type FrameOutput struct {
	Layer             *graphics.Layer
	Changed           bool
	ComponentsRebuilt int
}

// PointerHit is one entry of DispatchPointerEvent's hit-path: the id of the
// render element that was hit, and the pointer position translated into
// that element's local coordinate space, the shape §6 says is delivered to
// the (out of scope) gesture layer.
type PointerHit struct {
	Element arena.ElementId
	Local   layout.Offset
}
