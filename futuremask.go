package yata

import "github.com/bits-and-blooms/bitset"

// IntegratedSet is a fast per-peer id-membership set, the supplemented
// OpSpanSet from
// original_source/crates/loro-core/src/container/text/tracker/yata_impl.rs.
// Tracker uses one instance as a cache of which ids are currently
// future-marked (status.FutureCount > 0), so Retreat/Forward and
// ApplyTrackedEffectsFrom can answer "is this id currently in the
// future" in O(1) without walking CursorMap and reading back Status.
//
// Grounded on node.go's bitset.BitSet usage (the teacher's only
// third-party dependency): one bitset per peer, indexed by
// counter-minus-base the same way the teacher indexes by
// baseIndex-minus-rank, with bitset.BitSet.Set growing the underlying
// word slice on demand instead of a fixed 256-bit stride.
type IntegratedSet struct {
	base map[Peer]Counter
	bits map[Peer]*bitset.BitSet
}

// NewIntegratedSet constructs an empty set.
func NewIntegratedSet() *IntegratedSet {
	return &IntegratedSet{
		base: make(map[Peer]Counter),
		bits: make(map[Peer]*bitset.BitSet),
	}
}

func (s *IntegratedSet) slot(peer Peer, counter Counter) uint {
	base, ok := s.base[peer]
	if !ok {
		s.base[peer] = counter
		return 0
	}
	if counter < base {
		// Retreat can record a lower range after a higher one, so the
		// base moves down: every recorded bit shifts up by the
		// difference and counter becomes slot 0.
		shift := uint(base - counter)
		bs := s.bits[peer]
		rebased := bitset.New(bs.Len() + shift)
		for i, e := bs.NextSet(0); e; i, e = bs.NextSet(i + 1) {
			rebased.Set(i + shift)
		}
		*bs = *rebased
		s.base[peer] = counter
		base = counter
	}
	return uint(counter - base)
}

// Add records every id in span as integrated.
func (s *IntegratedSet) Add(span IDSpan) {
	bs, ok := s.bits[span.Peer]
	if !ok {
		bs = bitset.New(0)
		s.bits[span.Peer] = bs
	}
	from := s.slot(span.Peer, span.Start)
	to := s.slot(span.Peer, span.End)
	for i := from; i < to; i++ {
		bs.Set(i)
	}
}

// Remove un-records every id in span (used by Tracker.Forward to clear
// the future-marked cache it keeps with this same type — see
// tracker.go).
func (s *IntegratedSet) Remove(span IDSpan) {
	bs, ok := s.bits[span.Peer]
	if !ok {
		return
	}
	base := s.base[span.Peer]
	if span.Start < base {
		return
	}
	from := uint(span.Start - base)
	to := uint(span.End - base)
	for i := from; i < to; i++ {
		bs.Clear(i)
	}
}

// Contains reports whether id has been recorded via Add.
func (s *IntegratedSet) Contains(id ID) bool {
	bs, ok := s.bits[id.Peer]
	if !ok {
		return false
	}
	base := s.base[id.Peer]
	if id.Counter < base {
		return false
	}
	return bs.Test(uint(id.Counter - base))
}

// ContainsSpan reports whether every id in span has been recorded.
func (s *IntegratedSet) ContainsSpan(span IDSpan) bool {
	bs, ok := s.bits[span.Peer]
	if !ok {
		return span.Len() == 0
	}
	base := s.base[span.Peer]
	if span.Start < base {
		return false
	}
	from := uint(span.Start - base)
	to := uint(span.End - base)
	for i := from; i < to; i++ {
		if !bs.Test(i) {
			return false
		}
	}
	return true
}

// Len reports the total number of ids recorded across all peers,
// exercising bitset.Count the way node.go does for its rank
// bookkeeping.
func (s *IntegratedSet) Len() int {
	total := uint(0)
	for _, bs := range s.bits {
		total += bs.Count()
	}
	return int(total)
}
