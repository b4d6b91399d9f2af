package yata

import "testing"

// run is a minimal Rle[run] payload used only by this file: a single
// unit of weight per value, mergeable with any numerically-adjacent
// run of the same tag. It exists so RleTree's structural invariants
// can be tested independently of YSpan/Tracker semantics.
type run struct {
	tag   int
	start int
	n     int
}

func (r run) Len() int { return r.n }

func (r run) SplitAt(offset int) (left, right run) {
	return run{tag: r.tag, start: r.start, n: offset}, run{tag: r.tag, start: r.start + offset, n: r.n - offset}
}

func (r run) Mergeable(next run) bool {
	return r.tag == next.tag && r.start+r.n == next.start
}

func (r run) Merge(next run) run {
	return run{tag: r.tag, start: r.start, n: r.n + next.n}
}

func runWeight(r run) int { return r.n }

func newTestTree(minChildren, maxChildren int) *RleTree[run] {
	return NewRleTree[run](minChildren, maxChildren, runWeight, nil)
}

// collectUnits drains IterAll into a flat slice of unit-length values for
// easy comparison against an expected sequence.
func collectUnits(tr *RleTree[run]) []int {
	var out []int
	for it := range tr.IterAll() {
		for i := 0; i < it.n; i++ {
			out = append(out, it.start+i)
		}
	}
	return out
}

// appendRun inserts a single-unit run at the end of the document. tag
// distinguishes runs that must NOT auto-merge (distinct tags, as a
// real editor's distinct insert ops would be) from runs that are
// meant to RLE-compact together (same tag, contiguous values).
func appendRun(tr *RleTree[run], tag, value int) {
	leaf := tr.root.lastLeaf()
	idx := len(leaf.items) - 1
	if idx < 0 {
		tr.InsertAfter(nil, -1, run{tag: tag, start: value, n: 1})
		return
	}
	tr.InsertAfter(leaf, idx, run{tag: tag, start: value, n: 1})
}

func TestRleTreeInsertMaintainsOrder(t *testing.T) {
	tr := newTestTree(2, 4)
	for i := 0; i < 20; i++ {
		appendRun(tr, i, i) // distinct tags: never auto-merge, one item per unit
	}
	got := collectUnits(tr)
	if len(got) != 20 {
		t.Fatalf("expected 20 units, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("expected sequential order, got %v", got)
		}
	}
	if tr.Len() != 20 {
		t.Fatalf("expected Len()==20, got %d", tr.Len())
	}
}

// TestRleTreeInsertAutoMergesAdjacentItems is spec.md §3's mandatory
// invariant: InsertAfter itself (not just Tracker) keeps RLE-adjacent
// items merged, with no caller opt-in required.
func TestRleTreeInsertAutoMergesAdjacentItems(t *testing.T) {
	tr := newTestTree(2, 4)
	for i := 0; i < 5; i++ {
		appendRun(tr, 0, i) // same tag, contiguous values: always mergeable
	}
	leaf := tr.root.firstLeaf()
	if len(leaf.items) != 1 {
		t.Fatalf("expected every contiguous same-tag run to merge into one item, got %d items", len(leaf.items))
	}
	if leaf.items[0].n != 5 {
		t.Fatalf("expected the merged item to cover 5 units, got %d", leaf.items[0].n)
	}
	checkBalance(t, tr)
}

func TestRleTreeSplitItemAt(t *testing.T) {
	tr := newTestTree(2, 4)
	tr.InsertAfter(nil, -1, run{tag: 0, start: 0, n: 5})
	leaf := tr.root.firstLeaf()
	rightIdx := tr.SplitItemAt(leaf, 0, 2)
	if rightIdx != 1 {
		t.Fatalf("expected right half at index 1, got %d", rightIdx)
	}
	got := collectUnits(tr)
	for i, v := range got {
		if v != i {
			t.Fatalf("split must preserve logical order, got %v", got)
		}
	}
	if tr.Len() != 5 {
		t.Fatalf("split must not change total weight, got %d", tr.Len())
	}
}

// checkBalance walks the whole tree verifying spec.md §8 property 5:
// every non-root internal node has MIN <= children <= MAX, and no two
// consecutive items in any leaf satisfy Mergeable (else TryMergeAround
// should have folded them together).
func checkBalance(t *testing.T, tr *RleTree[run]) {
	t.Helper()
	var walk func(n *node[run], isRoot bool)
	walk = func(n *node[run], isRoot bool) {
		if n.leaf {
			for i := 0; i+1 < len(n.items); i++ {
				if n.items[i].Mergeable(n.items[i+1]) {
					t.Fatalf("adjacent mergeable items left uncompacted: %+v, %+v", n.items[i], n.items[i+1])
				}
			}
			return
		}
		if !isRoot {
			if len(n.children) < tr.minChildren || len(n.children) > tr.maxChildren {
				t.Fatalf("internal node children count %d out of [%d,%d]", len(n.children), tr.minChildren, tr.maxChildren)
			}
		}
		for _, c := range n.children {
			if c.parent != n {
				t.Fatalf("child's parent pointer does not point back at its actual parent")
			}
			walk(c, false)
		}
	}
	walk(tr.root, true)
}

// checkCursorIntegrity verifies spec.md §8 property 6: every id handed
// to CursorMap.set resolves back to a leaf whose item actually
// contains it, at the expected in-item offset.
func checkCursorIntegrity(t *testing.T, cm *CursorMap, tr *RleTree[YSpan], expectedIDs []ID) {
	t.Helper()
	for _, id := range expectedIDs {
		leaf, idx, offset, ok := cm.Lookup(id)
		if !ok {
			t.Fatalf("id %v missing from CursorMap", id)
		}
		item := leaf.items[idx]
		if item.ID.Peer != id.Peer || id.Counter < item.ID.Counter || id.Counter >= item.ID.Counter+Counter(item.Len()) {
			t.Fatalf("id %v resolved to non-containing item %+v", id, item)
		}
		if Counter(offset) != id.Counter-item.ID.Counter {
			t.Fatalf("id %v resolved with wrong offset %d", id, offset)
		}
	}
}

func TestRleTreeOverflowSplitKeepsBalance(t *testing.T) {
	tr := newTestTree(2, 4)
	for i := 0; i < 200; i++ {
		appendRun(tr, i, i) // distinct tags: forces real multi-leaf splits
	}
	checkBalance(t, tr)
	got := collectUnits(tr)
	if len(got) != 200 {
		t.Fatalf("expected 200 units, got %d", len(got))
	}
}

func TestRleTreeDeleteAtShrinksAndRebalances(t *testing.T) {
	tr := newTestTree(2, 4)
	for i := 0; i < 50; i++ {
		appendRun(tr, i, i) // distinct tags: keeps 50 separate leaf items to rebalance away
	}
	// delete in reverse order, one unit at a time, checking balance
	// throughout -- spec.md §8 scenario S5's shape, with real removal
	// instead of status-flip tombstoning since this is the raw,
	// non-CRDT RleTree (Tracker itself never deletes from the tree).
	for i := 49; i >= 0; i-- {
		tr.DeleteAt(i, 1)
		checkBalance(t, tr)
	}
	if !tr.IsEmpty() {
		t.Fatalf("expected an empty tree after deleting every unit, got Len()=%d", tr.Len())
	}
}

func TestRleTreeDeleteAtMiddleSplitsBoundaries(t *testing.T) {
	tr := newTestTree(2, 4)
	tr.InsertAfter(nil, -1, run{tag: 0, start: 0, n: 10})
	tr.DeleteAt(3, 4) // remove units [3,7)
	got := collectUnits(tr)
	want := []int{0, 1, 2, 7, 8, 9}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRleTreeStressInsertAndDeleteFromFront(t *testing.T) {
	tr := newTestTree(2, 4)
	const n = 300
	for i := 0; i < n; i++ {
		appendRun(tr, i, i) // distinct tags: exercises genuine overflow splitting under stress
		checkBalance(t, tr)
	}
	// delete the first half of the units, front to back; positions
	// shift left as we go, so always delete at the same rolling index.
	for i := 0; i < n/2; i++ {
		tr.DeleteAt(0, 1)
		checkBalance(t, tr)
	}
	if tr.Len() != n/2 {
		t.Fatalf("expected %d remaining units, got %d", n/2, tr.Len())
	}
	checkBalance(t, tr)
}

func TestRleTreePositionOfMatchesIterationOrder(t *testing.T) {
	tr := newTestTree(2, 4)
	for i := 0; i < 40; i++ {
		appendRun(tr, i, i) // distinct tags: one item per unit, so pos increments by 1 per item below
	}
	pos := 0
	for l := tr.root.firstLeaf(); l != nil; l = l.nextLeaf() {
		for idx := range l.items {
			if got := tr.PositionOf(l, idx, 0); got != pos {
				t.Fatalf("PositionOf mismatch at logical position %d: got %d", pos, got)
			}
			pos++
		}
	}
}

func TestCursorIntegrityUnderTrackerInserts(t *testing.T) {
	tracker := NewTracker(1, 2, 4)
	var ids []ID
	var prev ID = UnknownID
	for i := 0; i < 60; i++ {
		span := YSpan{ID: ID{Peer: 1, Counter: Counter(i)}, Len_: 1, OriginLeft: prev, OriginRight: UnknownID}
		if err := tracker.Integrate(span); err != nil {
			t.Fatalf("integrate: %v", err)
		}
		ids = append(ids, span.ID)
		prev = span.ID
	}
	checkCursorIntegrity(t, tracker.idToCursor, tracker.content, ids)
}
