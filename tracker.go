package yata

import "iter"

// trackerState names the two positions a Tracker can be in (spec.md
// §4.F's state machine). It is not stored: State derives it from
// whether currentVV equals headVV, and Integrate reads it to decide
// whether a new op is inserted future-marked.
type trackerState int

const (
	stateLive trackerState = iota
	stateCheckedOut
)

// Tracker owns one sequence container's content tree and cursor map
// (spec.md §4.F). It is not safe for concurrent use: spec.md §5 pins a
// single-threaded-per-tracker model, enforced here by guardReentry on
// every exported mutating method.
type Tracker struct {
	clientID Peer

	content    *RleTree[YSpan]
	idToCursor *CursorMap
	future     *IntegratedSet

	headVV    VersionVector
	currentVV VersionVector

	mutating bool
}

func yspanWeight(y YSpan) int {
	if y.Visible() {
		return y.Len()
	}
	return 0
}

// NewTracker constructs an empty tracker for clientID. minChildren/
// maxChildren bound RleTree's fanout (spec.md §4.B leaves these as
// constructor parameters, not constants).
func NewTracker(clientID Peer, minChildren, maxChildren int) *Tracker {
	t := &Tracker{
		clientID:   clientID,
		idToCursor: NewCursorMap(),
		future:     NewIntegratedSet(),
		headVV:     NewVersionVector(),
		currentVV:  NewVersionVector(),
	}
	t.content = NewRleTree[YSpan](minChildren, maxChildren, yspanWeight, t.idToCursor.Notify)
	return t
}

// State reports whether the tracker is positioned at its own head
// (Live) or checked out to some other version (CheckedOut).
func (t *Tracker) State() trackerState {
	if t.currentVV.Equal(t.headVV) {
		return stateLive
	}
	return stateCheckedOut
}

// HeadVV returns a copy of everything this tracker has ever integrated.
func (t *Tracker) HeadVV() VersionVector { return t.headVV.Clone() }

// CurrentVV returns a copy of the version currently checked out.
func (t *Tracker) CurrentVV() VersionVector { return t.currentVV.Clone() }

// CurrentFrontiers derives the Frontiers equivalent to CurrentVV.
func (t *Tracker) CurrentFrontiers() Frontiers { return FrontiersFromVV(t.currentVV) }

// CanIntegrate reports whether op's dependencies are covered by
// headVV (spec.md §4.F: integrate is checked against head, not
// current, so ops can be integrated in future status while checked
// out — see State/Retreat/Forward).
func (t *Tracker) CanIntegrate(op YSpan) bool {
	return CanIntegrate(t.headVV, op)
}

// Integrate places op in the content tree (spec.md §4.F). Precondition:
// CanIntegrate(op). Advances headVV to cover op's id range. If the
// tracker is Live, op becomes visible immediately; if CheckedOut, op is
// inserted already future-marked, so Forward must be called before it
// becomes visible.
//
// Idempotent (spec.md §8 property 2): re-integrating an op whose id is
// already covered by headVV is a no-op rather than a duplicate insert,
// since a peer may legitimately receive the same op twice (e.g. via
// two different relay paths) and headVV's own semantics as "every id
// this tracker has ever integrated" require it.
func (t *Tracker) Integrate(op YSpan) error {
	defer guardReentry(&t.mutating)()

	if t.headVV.Includes(op.ID) {
		return nil
	}
	if !t.CanIntegrate(op) {
		return ErrMissingDependency
	}

	checkedOut := t.State() == stateCheckedOut
	if checkedOut {
		op.Status = op.Status.Apply(SetAsFuture)
	}

	afterLeaf, afterIdx := placeSpan(t.content, t.idToCursor, op)
	t.content.InsertAfter(afterLeaf, afterIdx, op) // merges into an RLE-adjacent neighbour itself

	end := op.End()
	t.headVV.SetEnd(ID{Peer: op.ID.Peer, Counter: end.Counter})
	if checkedOut {
		t.future.Add(IDSpan{Peer: op.ID.Peer, Start: op.ID.Counter, End: end.Counter})
	} else {
		t.currentVV.SetEnd(ID{Peer: op.ID.Peer, Counter: end.Counter})
	}
	return nil
}

// applyStatusChange flips change across every id in spans, splitting
// tree items at span boundaries as needed via RleTree.MutateRange.
func (t *Tracker) applyStatusChange(spans IDSpanVector, change StatusChange) {
	spans.ForEach(func(s IDSpan) bool {
		remaining := s
		for remaining.Len() > 0 {
			leaf, idx, offset, ok := t.idToCursor.Lookup(ID{Peer: remaining.Peer, Counter: remaining.Start})
			invariant(ok, "applyStatusChange: id not found in CursorMap")
			avail := leaf.items[idx].Len() - offset
			take := remaining.Len()
			if take > avail {
				take = avail
			}
			t.content.MutateRange(leaf, idx, offset, take, func(y YSpan) YSpan {
				y.Status = y.Status.Apply(change)
				return y
			})
			// Re-merge the flipped piece with its neighbours so status
			// regions stay maximal RLE runs.
			if l, i, _, ok := t.idToCursor.Lookup(ID{Peer: remaining.Peer, Counter: remaining.Start}); ok {
				t.content.TryMergeAround(l, i)
			}
			remaining.Start += Counter(take)
		}
		return true
	})
}

// UpdateSpans flips status on every YSpan piece intersected by spans
// (spec.md §4.F), splitting tree items at range boundaries so status
// regions stay maximal RLE runs. Retreat/Forward/Delete/UndoDelete are
// thin wrappers over the same applyStatusChange primitive, each also updating the
// bookkeeping (future cache, currentVV) specific to their transition.
func (t *Tracker) UpdateSpans(spans IDSpanVector, change StatusChange) {
	defer guardReentry(&t.mutating)()
	t.applyStatusChange(spans, change)
}

// Retreat marks every id in spans as future (spec.md §4.F): moves the
// tracker from "knows spans" toward "forgets spans", used en route to
// a checkout of an earlier version. spans must already be covered by
// currentVV. Retreating an id that was never integrated panics via the
// invariant in applyStatusChange's CursorMap lookup; an integrated id
// outside currentVV is not detected and is future-marked once more.
func (t *Tracker) Retreat(spans IDSpanVector) {
	defer guardReentry(&t.mutating)()
	t.applyStatusChange(spans, SetAsFuture)
	spans.ForEach(func(s IDSpan) bool {
		t.future.Add(s)
		t.currentVV = subtractSpan(t.currentVV, s)
		return true
	})
}

// Forward is Retreat's inverse: marks every id in spans as current.
func (t *Tracker) Forward(spans IDSpanVector) {
	defer guardReentry(&t.mutating)()
	t.applyStatusChange(spans, SetAsCurrent)
	spans.ForEach(func(s IDSpan) bool {
		t.future.Remove(s)
		t.currentVV.SetEnd(ID{Peer: s.Peer, Counter: s.End})
		return true
	})
}

// subtractSpan lowers vv[s.Peer] to s.Start, if vv currently extends at
// least that far — used by Retreat to pull currentVV back below a
// newly future-marked range. Only valid when s abuts the top of vv's
// known range for that peer, which Retreat's callers (Checkout) always
// arrange by construction (spec.md §4.F: to_retreat is exactly
// current_vv \ target_vv, a suffix of each peer's current range).
func subtractSpan(vv VersionVector, s IDSpan) VersionVector {
	out := vv.Clone()
	if out.Get(s.Peer) > s.Start {
		out.next[s.Peer] = s.Start
	}
	return out
}

// Checkout moves the tracker to target: computes the retreat/forward
// partition against currentVV and applies both (spec.md §4.F).
func (t *Tracker) Checkout(target VersionVector) {
	toRetreat, toForward := Diff(t.currentVV, target)
	if !toRetreat.IsEmpty() {
		t.Retreat(toRetreat)
	}
	if !toForward.IsEmpty() {
		t.Forward(toForward)
	}
	t.currentVV = target.Clone()
}

// Delete marks every id in spans deleted (spec.md §4.F /
// "Delete is range-based"). Unlike Retreat/Forward this never becomes
// visible again except via UndoDelete.
func (t *Tracker) Delete(spans IDSpanVector) {
	defer guardReentry(&t.mutating)()
	t.applyStatusChange(spans, Delete)
}

// UndoDelete reverses a prior Delete over spans.
func (t *Tracker) UndoDelete(spans IDSpanVector) {
	defer guardReentry(&t.mutating)()
	t.applyStatusChange(spans, UndoDelete)
}

// IterVisible yields the materialised sequence currently checked out,
// as visible YSpan runs in document order — the "get_value" of
// spec.md §5's Container trait, narrowed to this tracker's own
// sequence.
func (t *Tracker) IterVisible() iter.Seq[YSpan] {
	return t.content.IterVisible(0, t.content.Len())
}

// VisibleLen reports the length of the currently-visible sequence.
func (t *Tracker) VisibleLen() int { return t.content.Len() }

// EffectKind distinguishes the two entries ApplyTrackedEffectsFrom can
// produce.
type EffectKind int

const (
	EffectInsert EffectKind = iota
	EffectDelete
)

// Effect is one entry of the linear edit script
// ApplyTrackedEffectsFrom projects out of a set of already-integrated
// but not-yet-observed spans (spec.md §4.F / §6).
type Effect struct {
	Kind EffectKind
	Pos  int
	Span IDSpan
}

// ApplyTrackedEffectsFrom projects effectSpans — ids the tracker has
// already integrated relative to fromVV but that the caller hasn't
// observed yet — into a linear edit script of inserts (by position)
// and deletes (by range), using the tracker's current checkout as the
// position baseline.
//
// Scope note: spec.md §6 lists this operation only as a contract to
// fix (it's part of the larger document layer's surface, explicitly
// out of this core's scope per spec.md §1's Non-goals), so positions
// are projected against the tracker's *current* state rather than
// reconstructing the exact fromVV-checkout baseline with a temporary
// checkout/restore round-trip — cheaper, and sufficient for the
// contract this core actually owns (see DESIGN.md).
//
// A span reported here is a Delete only when the caller already knew
// about it (fromVV covers its id) and the futuremask cache now reports
// it hidden by a Retreat since then; every other case — the caller
// never saw it, or it's still visible — is an Insert.
func (t *Tracker) ApplyTrackedEffectsFrom(fromVV VersionVector, effectSpans IDSpanVector) []Effect {
	var effects []Effect
	effectSpans.ForEach(func(s IDSpan) bool {
		leaf, idx, offset, ok := t.idToCursor.Lookup(ID{Peer: s.Peer, Counter: s.Start})
		if !ok {
			return true
		}
		pos := t.content.PositionOf(leaf, idx, offset)
		kind := EffectInsert
		if fromVV.Includes(ID{Peer: s.Peer, Counter: s.Start}) && t.future.ContainsSpan(s) {
			kind = EffectDelete
		}
		effects = append(effects, Effect{Kind: kind, Pos: pos, Span: s})
		return true
	})
	return effects
}
