package yata

import "testing"

func TestCanIntegrateRequiresOriginLeft(t *testing.T) {
	vv := NewVersionVector()
	span := YSpan{ID: ID{Peer: 1, Counter: 0}, Len_: 1, OriginLeft: ID{Peer: 9, Counter: 0}, OriginRight: UnknownID}
	if CanIntegrate(vv, span) {
		t.Fatal("expected CanIntegrate to fail: origin_left not yet seen")
	}
}

func TestCanIntegrateRequiresOriginRight(t *testing.T) {
	vv := NewVersionVector()
	span := YSpan{ID: ID{Peer: 1, Counter: 0}, Len_: 1, OriginLeft: UnknownID, OriginRight: ID{Peer: 9, Counter: 0}}
	if CanIntegrate(vv, span) {
		t.Fatal("expected CanIntegrate to fail: origin_right not yet seen")
	}
}

func TestCanIntegrateRequiresOwnPredecessor(t *testing.T) {
	vv := NewVersionVector()
	span := YSpan{ID: ID{Peer: 1, Counter: 3}, Len_: 1, OriginLeft: UnknownID, OriginRight: UnknownID}
	if CanIntegrate(vv, span) {
		t.Fatal("expected CanIntegrate to fail: peer's own counter-2 predecessor missing")
	}
}

func TestCanIntegrateSucceedsWhenDependenciesSatisfied(t *testing.T) {
	vv := NewVersionVector()
	vv.SetEnd(ID{Peer: 1, Counter: 1})
	vv.SetEnd(ID{Peer: 9, Counter: 1})
	span := YSpan{ID: ID{Peer: 1, Counter: 1}, Len_: 1, OriginLeft: ID{Peer: 9, Counter: 0}, OriginRight: UnknownID}
	if !CanIntegrate(vv, span) {
		t.Fatal("expected CanIntegrate to succeed once every dependency is present")
	}
}

// visibleIDs drains a tracker's visible sequence as a flat slice of ids
// for order comparison.
func visibleIDs(tr *Tracker) []ID {
	var out []ID
	for v := range tr.IterVisible() {
		out = append(out, v.ID)
	}
	return out
}

func sameIDOrder(a, b []ID) bool {
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

// TestPlaceSpanConvergesRegardlessOfArrivalOrder exercises spec.md §8
// property 1 (convergence) against scenario S1's shape: peer 1 inserts
// two items at the document start, peer 2 concurrently inserts two
// different items at the document start. Both trackers must reach the
// same final order no matter which peer's ops are integrated first.
//
// This does not assert spec.md §4.E's own illustrative "X Y A B"
// string: that example is explicitly hedged in the spec text itself
// ("fix the convention explicitly in implementation; the test pins the
// chosen convention"), and placeSpan implements the literal tie-break
// rule spec.md §4.E actually specifies (peer(o) > peer(n) stops the
// scan), which converges to a different — but still order-independent
// — interleaving. See DESIGN.md's Open Question entry on the tie-break
// convention.
func TestPlaceSpanConvergesRegardlessOfArrivalOrder(t *testing.T) {
	a1 := YSpan{ID: ID{Peer: 1, Counter: 0}, Len_: 1, OriginLeft: UnknownID, OriginRight: UnknownID}
	a2 := YSpan{ID: ID{Peer: 1, Counter: 1}, Len_: 1, OriginLeft: a1.ID, OriginRight: UnknownID}
	x1 := YSpan{ID: ID{Peer: 2, Counter: 0}, Len_: 1, OriginLeft: UnknownID, OriginRight: UnknownID}
	x2 := YSpan{ID: ID{Peer: 2, Counter: 1}, Len_: 1, OriginLeft: x1.ID, OriginRight: UnknownID}

	forward := NewTracker(1, 2, 4)
	for _, op := range []YSpan{a1, a2, x1, x2} {
		if err := forward.Integrate(op); err != nil {
			t.Fatalf("integrate %v: %v", op.ID, err)
		}
	}

	reverse := NewTracker(2, 2, 4)
	for _, op := range []YSpan{x1, x2, a1, a2} {
		if err := reverse.Integrate(op); err != nil {
			t.Fatalf("integrate %v: %v", op.ID, err)
		}
	}

	got, want := visibleIDs(forward), visibleIDs(reverse)
	if !sameIDOrder(got, want) {
		t.Fatalf("arrival order changed the converged sequence: %v vs %v", got, want)
	}
	if n := forward.VisibleLen(); n != 4 {
		t.Fatalf("expected 4 visible items, got %d", n)
	}
}

func TestCanIntegrateRejectsWrongOrderDependency(t *testing.T) {
	tracker := NewTracker(1, 2, 4)
	a1 := YSpan{ID: ID{Peer: 1, Counter: 0}, Len_: 1, OriginLeft: UnknownID, OriginRight: UnknownID}
	a2 := YSpan{ID: ID{Peer: 1, Counter: 1}, Len_: 1, OriginLeft: a1.ID, OriginRight: UnknownID}
	if err := tracker.Integrate(a2); err == nil {
		t.Fatal("expected integrating a2 before its dependency a1 to fail")
	}
	if err := tracker.Integrate(a1); err != nil {
		t.Fatalf("integrate a1: %v", err)
	}
	if err := tracker.Integrate(a2); err != nil {
		t.Fatalf("integrate a2 after its dependency landed: %v", err)
	}
}
