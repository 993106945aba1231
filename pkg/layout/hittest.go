package layout

// HitResult is one entry of a hit-test path: the render node that was hit and
// the pointer position translated into that node's local coordinate space,
// the shape DispatchPointerEvent hands to the gesture layer (out of scope).
type HitResult struct {
	Node  *RenderNode
	Local Offset
}

// HitTestRoot walks the render tree from node downward looking for every
// node whose HitTest reports true at pos (in node's own local coordinates),
// front-to-back: children are visited in reverse paint order since a later
// child paints on top of an earlier one and should receive the pointer
// event first, then node itself is appended last as the backstop a pointer
// always hits if nothing more specific claimed it and node.HitTest(pos)
// passes. A node whose own HitTest fails is skipped (and, as in the donor
// framework's clipping render objects, its subtree with it) unless a
// capability opts out of that pruning by always returning true.
func HitTestRoot(node *RenderNode, pos Offset) []HitResult {
	if node == nil {
		return nil
	}
	if !node.Capability.HitTest(pos, node.lastSize) {
		return nil
	}

	var results []HitResult
	children := node.children
	for i := len(children) - 1; i >= 0; i-- {
		child := children[i]
		local := Offset{
			X: pos.X - child.lastOffset.X,
			Y: pos.Y - child.lastOffset.Y,
		}
		results = append(results, HitTestRoot(child, local)...)
	}
	results = append(results, HitResult{Node: node, Local: pos})
	return results
}
