package yata

import "sort"

// VersionVector maps peer to its next-unseen counter: vv[peer] is one
// past the highest counter from peer that has been integrated.
// VersionVector totalises a causal past — Includes(id) answers
// "has this op been integrated" in O(1).
type VersionVector struct {
	next map[Peer]Counter
}

// NewVersionVector returns an empty version vector (ready to use; the
// zero value also works).
func NewVersionVector() VersionVector {
	return VersionVector{next: make(map[Peer]Counter)}
}

// Get returns the next-unseen counter for peer (0 if peer is unknown).
func (vv VersionVector) Get(peer Peer) Counter {
	return vv.next[peer]
}

// Includes reports whether id has already been integrated.
func (vv VersionVector) Includes(id ID) bool {
	if id.IsUnknown() {
		return true
	}
	return vv.next[id.Peer] > id.Counter
}

// SetEnd raises vv[id.Peer] to at least id.Counter, recording that
// everything up to (but not including) id from that peer has been
// seen.
func (vv *VersionVector) SetEnd(id ID) {
	if vv.next == nil {
		vv.next = make(map[Peer]Counter)
	}
	if id.Counter > vv.next[id.Peer] {
		vv.next[id.Peer] = id.Counter
	}
}

// Clone returns a deep copy.
func (vv VersionVector) Clone() VersionVector {
	out := NewVersionVector()
	for p, c := range vv.next {
		out.next[p] = c
	}
	return out
}

// LessEq reports whether vv is componentwise <= other (vv's causal
// past is contained in other's).
func (vv VersionVector) LessEq(other VersionVector) bool {
	for p, c := range vv.next {
		if c > other.next[p] {
			return false
		}
	}
	return true
}

// Concurrent reports whether neither vv <= other nor other <= vv.
func (vv VersionVector) Concurrent(other VersionVector) bool {
	return !vv.LessEq(other) && !other.LessEq(vv)
}

// Equal reports whether vv and other cover exactly the same ids.
func (vv VersionVector) Equal(other VersionVector) bool {
	return vv.LessEq(other) && other.LessEq(vv)
}

// peersOf returns the union of peers mentioned by vvs, sorted
// ascending.
func peersOf(vvs ...VersionVector) []Peer {
	seen := make(map[Peer]struct{})
	for _, vv := range vvs {
		for p := range vv.next {
			seen[p] = struct{}{}
		}
	}
	peers := make([]Peer, 0, len(seen))
	for p := range seen {
		peers = append(peers, p)
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i] < peers[j] })
	return peers
}

// SubIterSpans returns the IDSpanVector describing everything vv knows
// about that other does not: for every peer, the half-open range
// [other[peer], vv[peer]).
func (vv VersionVector) SubIterSpans(other VersionVector) IDSpanVector {
	out := IDSpanVector{}
	for _, p := range peersOf(vv, other) {
		start, end := other.next[p], vv.next[p]
		if end > start {
			out.Insert(IDSpan{Peer: p, Start: start, End: end})
		}
	}
	return out
}

// Diff partitions what must change to move current state from "it
// reflects from" to "it reflects to": toRetreat covers ids known to
// `from` but not `to` (must become invisible), toForward covers ids
// known to `to` but not `from` (must become visible again).
func Diff(from, to VersionVector) (toRetreat, toForward IDSpanVector) {
	return from.SubIterSpans(to), to.SubIterSpans(from)
}

// Frontiers is the minimal antichain of IDs whose downward closure
// equals a VersionVector's covered set: one ID per peer, the ID of the
// last op from that peer (Frontiers stores the *last seen* counter,
// unlike the VV's *next unseen* counter).
type Frontiers []ID

// FrontiersFromVV derives the Frontiers equivalent to vv: for every
// peer with at least one op, the ID of its last op.
func FrontiersFromVV(vv VersionVector) Frontiers {
	peers := make([]Peer, 0, len(vv.next))
	for p, c := range vv.next {
		if c > 0 {
			peers = append(peers, p)
		}
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i] < peers[j] })
	f := make(Frontiers, 0, len(peers))
	for _, p := range peers {
		f = append(f, ID{Peer: p, Counter: vv.next[p] - 1})
	}
	return f
}

// VV reconstructs the VersionVector whose covered set is exactly the
// downward closure of f (valid only when f really is an antichain of
// maximal ids, i.e. came from FrontiersFromVV or decode).
func (f Frontiers) VV() VersionVector {
	vv := NewVersionVector()
	for _, id := range f {
		vv.SetEnd(id.Inc(1))
	}
	return vv
}

// Sorted returns a copy of f sorted by peer ascending, the order the
// wire format requires.
func (f Frontiers) Sorted() Frontiers {
	out := append(Frontiers(nil), f...)
	sort.Slice(out, func(i, j int) bool { return out[i].Peer < out[j].Peer })
	return out
}

// Equal reports whether f and other name the same set of ids.
func (f Frontiers) Equal(other Frontiers) bool {
	a, b := f.Sorted(), other.Sorted()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
