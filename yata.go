package yata

// CanIntegrate reports whether span's dependencies are all covered by
// currentVV (spec.md §4.E, "Can-integrate precondition"): its
// origin_left, its origin_right, and — when it isn't the first op from
// its own peer — its own immediate predecessor, each unless the
// reference is the unknown sentinel.
func CanIntegrate(currentVV VersionVector, span YSpan) bool {
	if !span.OriginLeft.IsUnknown() && !currentVV.Includes(span.OriginLeft) {
		return false
	}
	if !span.OriginRight.IsUnknown() && !currentVV.Includes(span.OriginRight) {
		return false
	}
	if span.ID.Counter > 0 {
		pred := ID{Peer: span.ID.Peer, Counter: span.ID.Counter - 1}
		if !currentVV.Includes(pred) {
			return false
		}
	}
	return true
}

// placeSpan locates where span belongs in content per the YATA scan
// (spec.md §4.E): find origin_left via cm, then scan rightward to
// origin_right, stopping at the first item whose own origin_left lies
// to the left of span's, or that shares span's origin_left but belongs
// to a higher-peer op (tie-break, peer ascending). An item whose
// origin_left is one of the items this scan already passed is skipped,
// since it was inserted after one of those items.
//
// Returns the (leaf, idx) cursor to pass to RleTree.InsertAfter: idx
// == -1 with leaf == tree's first leaf means "insert at document
// start".
//
// "To the left of l" is evaluated against the items this scan has
// itself already walked past in this call (tracked in passed), which
// is equivalent to a full document-order comparison because of the
// monotone-anchor invariant (spec.md §4.E property 2): origin_left(o)
// must already lie to the left of o, so it is either exactly l,
// somewhere this scan already passed, or somewhere before l entirely
// (outside the scan window) — never something not yet reached.
func placeSpan(tree *RleTree[YSpan], cm *CursorMap, span YSpan) (afterLeaf *node[YSpan], afterIdx int) {
	l, r := span.OriginLeft, span.OriginRight

	var leaf *node[YSpan]
	idx := -1
	if !l.IsUnknown() {
		lf, li, loff, ok := cm.Lookup(l)
		invariant(ok, "placeSpan: origin_left not found in CursorMap")
		if loff+1 < lf.items[li].Len() {
			tree.SplitItemAt(lf, li, loff+1)
			lf, li, _, ok = cm.Lookup(l)
			invariant(ok, "placeSpan: origin_left lost after split")
		}
		leaf, idx = lf, li
	} else {
		leaf, idx = tree.firstLeaf(), -1
	}

	if !r.IsUnknown() {
		rf, ri, roff, ok := cm.Lookup(r)
		invariant(ok, "placeSpan: origin_right not found in CursorMap")
		if roff > 0 {
			tree.SplitItemAt(rf, ri, roff)
		}
	}

	passed := NewIDSpanVector()
	var curLeaf *node[YSpan]
	var curIdx int
	if idx == -1 {
		curLeaf, curIdx = leaf, 0
		if len(curLeaf.items) == 0 {
			curLeaf = nil
		}
	} else {
		curLeaf, curIdx = stepForward(leaf, idx)
	}

	for curLeaf != nil && curIdx < len(curLeaf.items) {
		o := curLeaf.items[curIdx]
		if !r.IsUnknown() && o.ID == r {
			break
		}
		stop := false
		switch {
		case o.OriginLeft == l:
			if o.ID.Peer > span.ID.Peer {
				stop = true
			}
		case !passed.Contains(o.OriginLeft):
			stop = true
		}
		if stop {
			break
		}
		passed.Insert(IDSpan{Peer: o.ID.Peer, Start: o.ID.Counter, End: o.ID.Counter + Counter(o.Len())})
		leaf, idx = curLeaf, curIdx
		curLeaf, curIdx = stepForward(curLeaf, curIdx)
	}

	afterLeaf, afterIdx = leaf, idx
	return afterLeaf, afterIdx
}
