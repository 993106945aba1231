package core

import "github.com/loomui/loom/pkg/arena"

// reconcileChild reconciles a single-child slot (used by Component and
// Provider elements, which always have at most one child): reuse existingID
// in place if its view canReuse against newView, otherwise unmount it and
// mount newView fresh. A nil newView unmounts and returns the nil id.
func (t *Tree) reconcileChild(parentID, existingID elementID, newView View, slot any) elementID {
	if newView == nil {
		if !existingID.IsNil() {
			t.unmount(existingID)
		}
		return arena.NilElementId
	}
	if !existingID.IsNil() {
		if existing := t.View(existingID); canReuse(existing, newView) {
			t.update(existingID, newView, slot)
			return existingID
		}
		t.unmount(existingID)
	}
	return t.mount(newView, parentID, slot)
}

// reconcileChildren reconciles a multi-child slot (a Render element's
// ordered children) using the donor framework's six-step diff, translated
// from pointer-linked elements to arena ids: sync matching elements from
// the top, scan (without processing) a matching tail from the bottom, key
// the remaining middle old children by View.Key, match middle new views
// against that key map (falling back to positional reuse for unkeyed
// views), replay the bottom matches found in the scan step, then unmount
// whatever old children were never claimed.
func (t *Tree) reconcileChildren(parentID elementID, oldChildren []elementID, newViews []View) []elementID {
	newChildren := make([]elementID, 0, len(newViews))

	oldStart, newStart := 0, 0
	oldEnd, newEnd := len(oldChildren), len(newViews)

	var prevChild elementID

	// 1. Sync from the top while old/new line up by type+key.
	for oldStart < oldEnd && newStart < newEnd {
		oldView := t.View(oldChildren[oldStart])
		newView := newViews[newStart]
		if !canReuse(oldView, newView) {
			break
		}
		slot := IndexedSlot{Index: newStart, PreviousSibling: prevChild}
		child := t.reconcileChild(parentID, oldChildren[oldStart], newView, slot)
		newChildren = append(newChildren, child)
		prevChild = child
		oldStart++
		newStart++
	}

	// 2. Scan (don't process yet) a matching run from the bottom.
	oldEndScan, newEndScan := oldEnd, newEnd
	for oldEndScan > oldStart && newEndScan > newStart {
		oldView := t.View(oldChildren[oldEndScan-1])
		newView := newViews[newEndScan-1]
		if !canReuse(oldView, newView) {
			break
		}
		oldEndScan--
		newEndScan--
	}

	// 3. Key the untouched middle of the old children.
	keyedOld := make(map[any]elementID)
	nonKeyedOld := make([]elementID, 0)
	for i := oldStart; i < oldEndScan; i++ {
		child := oldChildren[i]
		key := t.View(child).Key()
		if key != nil && isComparable(key) {
			keyedOld[key] = child
		} else {
			nonKeyedOld = append(nonKeyedOld, child)
		}
	}

	// 4. Process the middle new views against the key map (falling back to
	// positional reuse for unkeyed views, in encounter order).
	nonKeyedIdx := 0
	for newStart < newEndScan {
		newView := newViews[newStart]
		key := newView.Key()
		var oldChild elementID

		if key != nil && isComparable(key) {
			oldChild = keyedOld[key]
			delete(keyedOld, key)
		} else if nonKeyedIdx < len(nonKeyedOld) {
			candidate := nonKeyedOld[nonKeyedIdx]
			if !candidate.IsNil() && canReuse(t.View(candidate), newView) {
				oldChild = candidate
				nonKeyedOld[nonKeyedIdx] = arena.NilElementId
			}
			nonKeyedIdx++
		}

		slot := IndexedSlot{Index: len(newChildren), PreviousSibling: prevChild}
		child := t.reconcileChild(parentID, oldChild, newView, slot)
		newChildren = append(newChildren, child)
		prevChild = child
		newStart++
	}

	// 5. Replay the bottom matches found during the scan step.
	for newEndScan < newEnd {
		oldChild := oldChildren[oldEndScan]
		newView := newViews[newEndScan]
		slot := IndexedSlot{Index: len(newChildren), PreviousSibling: prevChild}
		child := t.reconcileChild(parentID, oldChild, newView, slot)
		newChildren = append(newChildren, child)
		prevChild = child
		oldEndScan++
		newEndScan++
	}

	// 6. Unmount whatever old children were never claimed above.
	for _, remaining := range keyedOld {
		t.unmount(remaining)
	}
	for _, remaining := range nonKeyedOld {
		if !remaining.IsNil() {
			t.unmount(remaining)
		}
	}

	return newChildren
}
