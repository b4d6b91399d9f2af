// Command yatadot seeds one tracker with two peers' concurrent inserts and logs
// the converged visible sequence, exercising Tracker, the Yata
// integrator, and RleTree end to end.
package main

import (
	"log"

	"github.com/yata-go/yata"
)

func op(peer yata.Peer, counter int32, originLeft yata.ID) yata.YSpan {
	return yata.YSpan{
		ID:          yata.ID{Peer: peer, Counter: yata.Counter(counter)},
		Len_:        1,
		OriginLeft:  originLeft,
		OriginRight: yata.UnknownID,
	}
}

func main() {
	log.SetFlags(log.Lmicroseconds)

	// Scenario S1: peer 1 types "AB" at the document start; peer 2,
	// concurrently, types "XY" at the document start. Both spans'
	// first id has origin_left = unknown, so the Yata integrator's
	// pinned tie-break decides their relative order.
	const peerA, peerB yata.Peer = 1, 2
	tracker := yata.NewTracker(peerA, 2, 8)

	a1 := op(peerA, 0, yata.UnknownID)
	a2 := op(peerA, 1, a1.ID)
	x1 := op(peerB, 0, yata.UnknownID)
	x2 := op(peerB, 1, x1.ID)

	for _, span := range []yata.YSpan{a1, a2, x1, x2} {
		if err := tracker.Integrate(span); err != nil {
			log.Fatalf("integrate %s: %v", span.ID, err)
		}
	}

	log.Printf("head version: %+v", tracker.HeadVV())
	log.Printf("visible length: %d", tracker.VisibleLen())
	for v := range tracker.IterVisible() {
		log.Printf("span %s len=%d visible=%v", v.ID, v.Len(), v.Visible())
	}
}
