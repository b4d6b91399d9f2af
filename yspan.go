package yata

// Rle is the capability RleTree requires from its payload type: report
// a length, split at an offset, and say whether it can merge with a
// following, adjacent piece. Mirrors the teacher's single-method
// Cloner[V] capability interface, extended to the three operations an
// RLE-compressed tree actually needs from its element type.
type Rle[T any] interface {
	// Len reports how many logical items this value covers.
	Len() int
	// SplitAt divides the value at offset (0 < offset < Len()) into
	// two adjacent pieces that, concatenated, are equivalent to the
	// original.
	SplitAt(offset int) (left, right T)
	// Mergeable reports whether next may be merged onto the end of
	// the receiver (same run-length-compression class: adjacent ids,
	// equal status, consistent origins).
	Mergeable(next T) bool
	// Merge concatenates next onto the end of the receiver. Only
	// called when Mergeable reported true.
	Merge(next T) T
}

// YSpan is the unit stored in the content tree: a run of Len
// consecutive items from one peer, the anchors its first item was
// inserted relative to, and the run's shared visibility status.
//
// Invariant: all items in the span are id.Inc(0)..id.Inc(Len), same
// peer; OriginLeft/OriginRight refer to ids that either already exist
// in the tree or are UnknownID.
type YSpan struct {
	ID          ID
	Len_        int
	OriginLeft  ID
	OriginRight ID
	Status      Status
}

// Len implements Rle.
func (y YSpan) Len() int { return y.Len_ }

// End returns the ID one past the last item in the span.
func (y YSpan) End() ID { return y.ID.Inc(int32(y.Len_)) }

// LastID returns the ID of the span's last item.
func (y YSpan) LastID() ID { return y.ID.Inc(int32(y.Len_ - 1)) }

// Visible reports whether the span's items belong in the materialised
// sequence.
func (y YSpan) Visible() bool { return y.Status.Visible() }

// SplitAt divides y at offset into two spans that preserve YATA's
// monotone-anchor invariant across the split (spec.md §9,
// "Splittable, mergeable payload"): the left piece keeps y's original
// OriginLeft and OriginRight; the right piece's OriginLeft becomes the
// last id of the left piece (the two pieces are now each other's
// immediate neighbours), and the right piece keeps y's original
// OriginRight.
func (y YSpan) SplitAt(offset int) (left, right YSpan) {
	invariant(offset > 0 && offset < y.Len_, "YSpan.SplitAt: offset out of range")
	left = y
	left.Len_ = offset

	right = y
	right.ID = y.ID.Inc(int32(offset))
	right.Len_ = y.Len_ - offset
	right.OriginLeft = left.LastID()
	// right.OriginRight is unchanged (still y.OriginRight)
	return left, right
}

// Mergeable reports whether next is RLE-adjacent to y: same peer,
// contiguous counters, identical status, and next's OriginLeft is
// exactly y's last id (i.e. next really is "the item right after y"
// and not merely a same-peer run with a coincidentally-adjacent
// counter but a different logical left neighbour).
func (y YSpan) Mergeable(next YSpan) bool {
	if y.Status != next.Status {
		return false
	}
	if y.End() != next.ID {
		return false
	}
	return next.OriginLeft == y.LastID()
}

// Merge concatenates next onto y. Only valid when Mergeable(next).
func (y YSpan) Merge(next YSpan) YSpan {
	y.Len_ += next.Len_
	y.OriginRight = next.OriginRight
	return y
}
