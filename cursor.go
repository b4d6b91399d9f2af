package yata

import "sort"

// cursorRun is one entry of CursorMap's per-peer index: the id range
// [start, start+length) currently lives at leaf.items[idx].
type cursorRun struct {
	start  Counter
	length int32
	leaf   *node[YSpan]
	idx    int
}

func (r cursorRun) end() Counter { return r.start + Counter(r.length) }
func (r cursorRun) contains(c Counter) bool { return c >= r.start && c < r.end() }

// CursorMap is the secondary index spec.md §4.C describes: a
// peer -> sorted-runs map giving O(log runs) lookup from any ID back
// to the (leaf, index) pair in the content tree currently holding it.
// It is kept up to date purely by RleTree's NotifyFn callback — it
// never walks the tree itself.
//
// Grounded on node.go's rank-by-bitset idiom in spirit (a compact
// side-index instead of a tree walk); the sorted-run representation
// itself is IDSpanVector's (span.go), since the access pattern is
// identical: "given an id, find the run covering it" via sort.Search.
type CursorMap struct {
	runs map[Peer][]cursorRun
}

// NewCursorMap constructs an empty index.
func NewCursorMap() *CursorMap {
	return &CursorMap{runs: make(map[Peer][]cursorRun)}
}

// Notify is the RleTree NotifyFn: re-derive every id->(leaf,idx) entry
// the leaf currently holds. Safe to call repeatedly and in any order
// relative to a sibling leaf's own Notify call, because each call only
// ever (re)writes entries for ids it currently contains (see tree.go's
// fixOverflow / InsertAfter / SplitItemAt call sites) — an id that
// moved to a different leaf gets corrected the moment that leaf's own
// Notify runs, which RleTree always triggers as part of the same
// mutation.
func (cm *CursorMap) Notify(leaf *node[YSpan]) {
	for idx, it := range leaf.items {
		cm.set(it.ID, int32(it.Len()), leaf, idx)
	}
}

// set inserts or overwrites the run for [id, id+length), replacing any
// existing runs that overlap it for the same peer. Mirrors
// IDSpanVector.Insert's overlap-trim-then-insert shape (span.go).
func (cm *CursorMap) set(id ID, length int32, leaf *node[YSpan], idx int) {
	peer := id.Peer
	list := cm.runs[peer]
	start := id.Counter
	newRun := cursorRun{start: start, length: length, leaf: leaf, idx: idx}
	end := newRun.end()

	i := sort.Search(len(list), func(i int) bool { return list[i].start >= start })
	// Trim/drop any runs whose range overlaps [start, end).
	lo := i
	for lo > 0 && list[lo-1].end() > start {
		lo--
	}
	hi := i
	for hi < len(list) && list[hi].start < end {
		hi++
	}
	merged := make([]cursorRun, 0, len(list)-(hi-lo)+1)
	merged = append(merged, list[:lo]...)
	merged = append(merged, newRun)
	merged = append(merged, list[hi:]...)
	cm.runs[peer] = merged
}

// Lookup returns the (leaf, idx, offset) triple for id: the item
// currently holding id lives at leaf.items[idx], and id is offset
// items into that item's own id range. Returns ok=false if id is not
// tracked (never integrated, or a decode artifact).
func (cm *CursorMap) Lookup(id ID) (leaf *node[YSpan], idx int, offset int, ok bool) {
	list := cm.runs[id.Peer]
	i := sort.Search(len(list), func(i int) bool { return list[i].end() > id.Counter })
	if i >= len(list) || !list[i].contains(id.Counter) {
		return nil, 0, 0, false
	}
	r := list[i]
	return r.leaf, r.idx, int(id.Counter - r.start), true
}
