package testbed

import (
	"github.com/loomui/loom/pkg/core"
	"github.com/loomui/loom/pkg/graphics"
	"github.com/loomui/loom/pkg/layout"
)

// LayoutBox is a fixed-size, optionally colored leaf render, standing in
// for a concrete widget library's box primitive in tests.
type LayoutBox struct {
	Width, Height float64
	Color         graphics.Color
}

func (LayoutBox) Key() any { return nil }

func (b LayoutBox) CreateRender() layout.Render {
	return &layoutBoxRender{width: b.Width, height: b.Height, color: b.Color}
}

func (b LayoutBox) UpdateRender(r layout.Render) {
	box := r.(*layoutBoxRender)
	box.width = b.Width
	box.height = b.Height
	box.color = b.Color
}

func (LayoutBox) Children() []core.View { return nil }

type layoutBoxRender struct {
	width, height float64
	color         graphics.Color
}

func (r *layoutBoxRender) Layout(ctx *layout.LayoutContext) layout.Size {
	return ctx.Constraints().Constrain(layout.Size{Width: r.width, Height: r.height})
}

func (r *layoutBoxRender) Paint(ctx *layout.PaintContext) *layout.Layer {
	size := layout.Size{Width: r.width, Height: r.height}
	rec := graphics.NewPictureRecorder(size)
	if r.color != 0 {
		rec.FillRect(graphics.RectFromLTWH(0, 0, size.Width, size.Height), graphics.Paint{Color: r.color})
	}
	return graphics.PictureLayer(rec.Build())
}

func (r *layoutBoxRender) Arity() layout.Arity {
	return layout.ExactArity(0)
}

func (r *layoutBoxRender) HitTest(pos layout.Offset, size layout.Size) bool {
	return layout.BoundsHitTest(pos, size)
}
