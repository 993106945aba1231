// Package testbed provides internal fixtures used by the testing package's
// own tests: a minimal stateful component and a minimal leaf render.
package testbed

import (
	"github.com/loomui/loom/pkg/core"
	"github.com/loomui/loom/pkg/reactive"
)

// Counter is a component that holds an incrementing count in state and
// renders a LayoutBox whose width tracks it, so a test can both drive the
// count via Signal and observe the effect on layout.
type Counter struct {
	Initial int

	// Captured, when non-nil, receives the count signal on the first build
	// so a test can call Set/Update on it directly without walking the tree.
	Captured *reactive.Signal[int]
}

func (Counter) Key() any { return nil }

func (c Counter) Build(ctx core.BuildContext) core.View {
	count := core.UseState(ctx, c.Initial)
	if c.Captured != nil {
		*c.Captured = count
	}
	return LayoutBox{Width: float64(count.Get()), Height: 10}
}
