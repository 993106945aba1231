// Package pipeline drives the three-phase frame (build, layout, paint)
// described in §4.5: it owns the element tree, the window's current
// constraints, and is the one coordinator the embedder calls into every
// frame (§6). The donor framework splits this across a core.BuildOwner and
// a layout.PipelineOwner; this architecture's simpler three-tree design
// calls for a single coordinator, so the two are merged here.
package pipeline

import (
	"fmt"
	"time"

	"github.com/loomui/loom/pkg/core"
	"github.com/loomui/loom/pkg/errors"
	"github.com/loomui/loom/pkg/graphics"
	"github.com/loomui/loom/pkg/layout"
	"github.com/prometheus/client_golang/prometheus"
)

// Owner is the pipeline owner: the embedder's sole entry point for
// installing a root view, resizing the surface, running frames, and
// dispatching pointer events (§6).
type Owner struct {
	tree *core.Tree

	size        layout.Size
	constraints layout.Constraints

	lastLayer *graphics.Layer

	registry *prometheus.Registry
	metrics  *metricsSet

	lastCacheHits   uint64
	lastCacheMisses uint64
}

// NewOwner creates a pipeline with no mounted root and a zero-size surface.
// Call SetRoot and Resize before the first RunFrame.
func NewOwner() *Owner {
	reg := prometheus.NewRegistry()
	return &Owner{
		tree:     core.NewTree(),
		registry: reg,
		metrics:  newMetrics(reg),
	}
}

// Registry exposes this owner's metrics registry so the embedder can scrape
// it (§2B) without reaching into any package-global state.
func (o *Owner) Registry() *prometheus.Registry {
	return o.registry
}

// SetRoot installs view as the tree's root element (§6).
func (o *Owner) SetRoot(view core.View) {
	o.tree.SetRoot(view)
}

// Resize records the surface's new size, imposing tight constraints on the
// root and marking it needs-layout (§6).
func (o *Owner) Resize(size layout.Size) {
	o.size = size
	o.constraints = layout.Tight(size)
	if root := o.tree.RenderNodeOf(o.tree.Root()); root != nil {
		root.MarkNeedsLayout()
	}
}

// DispatchPointerEvent hit-tests the render tree from the root downward at
// pos (window coordinates) and returns the hit-path as element ids paired
// with each hit node's translated local position, front-to-back (§6).
func (o *Owner) DispatchPointerEvent(pos layout.Offset) []PointerHit {
	root := o.tree.RenderNodeOf(o.tree.Root())
	if root == nil {
		return nil
	}
	hits := layout.HitTestRoot(root, pos)
	path := make([]PointerHit, 0, len(hits))
	for _, hit := range hits {
		id, ok := o.tree.ElementForNode(hit.Node)
		if !ok {
			continue
		}
		path = append(path, PointerHit{Element: id, Local: hit.Local})
	}
	return path
}

// RunFrame drives one build/layout/paint cycle (§4.5) and returns either a
// freshly painted layer tree or a no-change marker, recording the frame's
// observability counters regardless of outcome.
func (o *Owner) RunFrame() (out FrameOutput, err error) {
	start := time.Now()
	defer func() {
		o.metrics.frameDuration.Observe(time.Since(start).Seconds())
		o.metrics.framesRun.Inc()
	}()

	rebuilt := o.tree.FlushBuild()
	o.metrics.componentsRebuilt.Add(float64(rebuilt))
	out.ComponentsRebuilt = rebuilt

	root := o.tree.RenderNodeOf(o.tree.Root())
	if root == nil {
		return out, fmt.Errorf("pipeline: RunFrame called with no mounted root")
	}

	if err := o.runLayoutPhase(root); err != nil {
		return out, err
	}
	o.recordCacheDelta()

	layer, changed, err := o.runPaintPhase(root)
	if err != nil {
		return out, err
	}
	out.Layer = layer
	out.Changed = changed
	return out, nil
}

// runLayoutPhase is a no-op on a tree clean for layout (§4.5 layout phase
// step 1), otherwise lays out the root under the window's constraints and
// validates the result satisfies them (§4.5 step 4, §7 "root layout does
// not satisfy window constraints").
func (o *Owner) runLayoutPhase(root *layout.RenderNode) (err error) {
	if !root.NeedsLayout() {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			errors.ReportBoundaryError(&errors.BoundaryError{
				Phase:        "layout",
				RenderObject: fmt.Sprintf("%T", root.Capability),
				Recovered:    r,
				StackTrace:   errors.CaptureStack(),
				Timestamp:    time.Now(),
			})
			err = fmt.Errorf("pipeline: layout phase panicked: %v", r)
		}
	}()
	size := layout.LayoutRoot(root, o.constraints)
	if !o.constraints.Satisfies(size) {
		return fmt.Errorf("pipeline: root layout size %+v does not satisfy window constraints %+v", size, o.constraints)
	}
	return nil
}

// runPaintPhase is a no-op on a tree clean for paint, reusing the previous
// layer tree (§4.5 paint phase step 1), otherwise paints the root at the
// origin.
func (o *Owner) runPaintPhase(root *layout.RenderNode) (layer *graphics.Layer, changed bool, err error) {
	if !root.NeedsPaint() {
		return o.lastLayer, false, nil
	}
	defer func() {
		if r := recover(); r != nil {
			errors.ReportBoundaryError(&errors.BoundaryError{
				Phase:        "paint",
				RenderObject: fmt.Sprintf("%T", root.Capability),
				Recovered:    r,
				StackTrace:   errors.CaptureStack(),
				Timestamp:    time.Now(),
			})
			err = fmt.Errorf("pipeline: paint phase panicked: %v", r)
		}
	}()
	layer = layout.PaintRoot(root)
	o.lastLayer = layer
	return layer, true, nil
}

// recordCacheDelta folds pkg/layout's cumulative cache-hit/miss counters
// into this owner's per-frame prometheus counters, since the layout package
// tracks them globally across every RenderNode rather than per-owner.
func (o *Owner) recordCacheDelta() {
	hits, misses := layout.CacheStats()
	o.metrics.cacheHits.Add(float64(hits - o.lastCacheHits))
	o.metrics.cacheMisses.Add(float64(misses - o.lastCacheMisses))
	o.lastCacheHits = hits
	o.lastCacheMisses = misses
}
