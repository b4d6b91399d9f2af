package yata

import "fmt"

// Peer uniquely names one replica. Each replica mints its own
// monotonically increasing Counter sequence; the pair (Peer, Counter)
// uniquely names one atomic op across the whole system.
type Peer uint64

// Counter is a per-peer, monotonically increasing sequence number.
type Counter int32

// unknownPeer and unknownCounter back the distinguished "unknown" ID
// sentinel (ID.IsUnknown). Peer 0 / Counter 0 is a perfectly valid real
// ID (the first op a peer ever makes), so the sentinel can't be the
// zero value; it's a dedicated out-of-band value instead.
const (
	unknownPeer    Peer    = ^Peer(0)
	unknownCounter Counter = -1
)

// ID names one atomic op: the Counter-th op made by Peer.
type ID struct {
	Peer    Peer
	Counter Counter
}

// UnknownID denotes an anchor that predates this replica's knowledge:
// "beginning of the sequence" when used as an origin_left, or "end of
// the sequence" when used as an origin_right.
var UnknownID = ID{Peer: unknownPeer, Counter: unknownCounter}

// IsUnknown reports whether id is the UnknownID sentinel.
func (id ID) IsUnknown() bool {
	return id == UnknownID
}

// Inc returns the ID delta counters after id, i.e. the ID of the
// (delta)-th item following id in id's peer's own sequence. Inc must
// not be called on UnknownID.
func (id ID) Inc(delta int32) ID {
	return ID{Peer: id.Peer, Counter: id.Counter + Counter(delta)}
}

// Contains reports whether other falls within the half-open run of len
// consecutive ids starting at id (same peer, counter in
// [id.Counter, id.Counter+len)).
func (id ID) Contains(length int32, other ID) bool {
	if id.Peer != other.Peer {
		return false
	}
	return other.Counter >= id.Counter && other.Counter < id.Counter+Counter(length)
}

func (id ID) String() string {
	if id.IsUnknown() {
		return "?"
	}
	return fmt.Sprintf("%d@%d", id.Counter, id.Peer)
}

// Less gives IDs a total order: by peer, then by counter. This is used
// only for deterministic iteration/printing, never for YATA placement
// (whose tie-break is the Yata integrator's own, documented rule).
func (id ID) Less(other ID) bool {
	if id.Peer != other.Peer {
		return id.Peer < other.Peer
	}
	return id.Counter < other.Counter
}
