package yata

// Status is the per-span tri-state visibility bitset described in
// spec.md §4.D, modeled as two independent counters rather than flags:
// per spec.md §9's open question, retreat/forward must compose safely
// under nesting (a span retreated twice must be forwarded twice before
// it's visible again), which a boolean can't express but a count can.
type Status struct {
	// FutureCount is incremented every time the span is retreated past
	// the tracker's current version, decremented on forward. >0 means
	// "not yet reached by the current checkout".
	FutureCount int
	// DeleteCount is the number of pending deletions observed for the
	// span. >0 means deleted. Kept as a count (not a bool) so
	// concurrent deletes are idempotent under undo: two peers deleting
	// the same span concurrently, followed by one undo, still leaves
	// it deleted.
	DeleteCount int
}

// Visible reports whether an item with this status belongs in the
// materialised sequence.
func (s Status) Visible() bool {
	return s.FutureCount == 0 && s.DeleteCount == 0
}

// StatusChange names one of the four transitions a status can undergo.
type StatusChange int

const (
	// SetAsCurrent removes one future marking (the inverse of
	// SetAsFuture), used by Tracker.Forward.
	SetAsCurrent StatusChange = iota
	// SetAsFuture adds one future marking, used by Tracker.Retreat.
	SetAsFuture
	// Delete adds one pending deletion.
	Delete
	// UndoDelete removes one pending deletion.
	UndoDelete
)

// Apply returns the status after change is applied. FutureCount and
// DeleteCount never go negative: an UndoDelete/SetAsCurrent with no
// matching prior Delete/SetAsFuture is a no-op, which keeps Tracker's
// retreat/forward idempotence property (spec.md §8 property 4) true
// even if ranges overlap slightly due to RLE-run splitting.
func (s Status) Apply(change StatusChange) Status {
	switch change {
	case SetAsCurrent:
		if s.FutureCount > 0 {
			s.FutureCount--
		}
	case SetAsFuture:
		s.FutureCount++
	case Delete:
		s.DeleteCount++
	case UndoDelete:
		if s.DeleteCount > 0 {
			s.DeleteCount--
		}
	}
	return s
}
