package yata

import "sort"

// IDSpan is a half-open, contiguous range of counters for one peer:
// [Start, End). It is RLE-mergeable with an adjacent span from the
// same peer.
type IDSpan struct {
	Peer  Peer
	Start Counter
	End   Counter // exclusive
}

// Len returns the number of ids covered by the span.
func (s IDSpan) Len() int {
	if s.End <= s.Start {
		return 0
	}
	return int(s.End - s.Start)
}

// Contains reports whether id falls within the span.
func (s IDSpan) Contains(id ID) bool {
	return id.Peer == s.Peer && id.Counter >= s.Start && id.Counter < s.End
}

// IDOf returns the ID at offset i within the span (0 <= i < s.Len()).
func (s IDSpan) IDOf(i int) ID {
	return ID{Peer: s.Peer, Counter: s.Start + Counter(i)}
}

// adjacent reports whether a and b are mergeable: same peer, and a
// ends exactly where b starts (or vice versa).
func (a IDSpan) adjacent(b IDSpan) bool {
	return a.Peer == b.Peer && (a.End == b.Start || b.End == a.Start)
}

func (a IDSpan) merge(b IDSpan) IDSpan {
	start, end := a.Start, a.End
	if b.Start < start {
		start = b.Start
	}
	if b.End > end {
		end = b.End
	}
	return IDSpan{Peer: a.Peer, Start: start, End: end}
}

// IDSpanVector maps peer to its ordered, non-overlapping spans. It is
// the result of VersionVector differences, and is the input type to
// Tracker.Retreat/Forward and to UpdateSpans.
type IDSpanVector struct {
	spans map[Peer][]IDSpan
}

// NewIDSpanVector builds an IDSpanVector from the given spans, merging
// adjacent same-peer runs and keeping each peer's spans sorted.
func NewIDSpanVector(spans ...IDSpan) IDSpanVector {
	v := IDSpanVector{}
	for _, s := range spans {
		v.Insert(s)
	}
	return v
}

// Insert adds span to the vector, merging it with any RLE-adjacent or
// overlapping run already present for its peer.
func (v *IDSpanVector) Insert(span IDSpan) {
	if span.Len() == 0 {
		return
	}
	if v.spans == nil {
		v.spans = make(map[Peer][]IDSpan)
	}
	runs := v.spans[span.Peer]
	i := sort.Search(len(runs), func(i int) bool { return runs[i].Start >= span.Start })

	// merge with predecessor if overlapping/adjacent
	if i > 0 && (runs[i-1].End >= span.Start) {
		i--
		span = runs[i].merge(span)
		runs = append(runs[:i], runs[i+1:]...)
	}
	// merge with any following runs now covered by span
	j := i
	for j < len(runs) && runs[j].Start <= span.End {
		span = span.merge(runs[j])
		j++
	}
	runs = append(runs[:i], append([]IDSpan{span}, runs[j:]...)...)
	v.spans[span.Peer] = runs
}

// Peers returns the peers with at least one span, in ascending order.
func (v IDSpanVector) Peers() []Peer {
	peers := make([]Peer, 0, len(v.spans))
	for p := range v.spans {
		peers = append(peers, p)
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i] < peers[j] })
	return peers
}

// Spans returns the ordered, non-overlapping spans for peer.
func (v IDSpanVector) Spans(peer Peer) []IDSpan {
	return v.spans[peer]
}

// IsEmpty reports whether the vector covers no ids at all.
func (v IDSpanVector) IsEmpty() bool {
	for _, runs := range v.spans {
		if len(runs) > 0 {
			return false
		}
	}
	return true
}

// Contains reports whether id is covered by the vector.
func (v IDSpanVector) Contains(id ID) bool {
	runs := v.spans[id.Peer]
	i := sort.Search(len(runs), func(i int) bool { return runs[i].End > id.Counter })
	return i < len(runs) && runs[i].Start <= id.Counter
}

// ForEach calls fn once per span, peers in ascending order, spans
// within a peer in ascending order. Iteration stops early if fn
// returns false.
func (v IDSpanVector) ForEach(fn func(IDSpan) bool) {
	for _, peer := range v.Peers() {
		for _, s := range v.spans[peer] {
			if !fn(s) {
				return
			}
		}
	}
}
