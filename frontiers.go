package yata

import "encoding/binary"

// Encode serialises f as: varint(peer_count), then peer_count pairs of
// (varint(peer), varint(counter)), sorted by peer ascending. This is
// the bit-exact wire format spec.md §6 fixes for interop; the same
// shape (with next-unseen counters instead of last-seen) is reused by
// VersionVector's own Encode.
func (f Frontiers) Encode() []byte {
	sorted := f.Sorted()
	buf := binary.AppendUvarint(nil, uint64(len(sorted)))
	for _, id := range sorted {
		buf = binary.AppendUvarint(buf, uint64(id.Peer))
		buf = binary.AppendUvarint(buf, uint64(uint32(id.Counter)))
	}
	return buf
}

// DecodeFrontiers parses the wire format produced by Frontiers.Encode.
// It returns ErrBadFrontierBinary on a short read or on peers that are
// not strictly ascending (a valid encoder never emits either).
func DecodeFrontiers(data []byte) (Frontiers, error) {
	n, rest, err := readUvarint(data)
	if err != nil {
		return nil, err
	}
	f := make(Frontiers, 0, n)
	var prevPeer Peer
	havePrev := false
	for i := uint64(0); i < n; i++ {
		var peerVal, counterVal uint64
		peerVal, rest, err = readUvarint(rest)
		if err != nil {
			return nil, err
		}
		counterVal, rest, err = readUvarint(rest)
		if err != nil {
			return nil, err
		}
		peer := Peer(peerVal)
		if havePrev && peer <= prevPeer {
			return nil, ErrBadFrontierBinary
		}
		prevPeer, havePrev = peer, true
		f = append(f, ID{Peer: peer, Counter: Counter(int32(counterVal))})
	}
	return f, nil
}

// Encode serialises vv the same way Frontiers.Encode does, except each
// pair is (peer, next-unseen-counter) rather than (peer, last-seen-id).
func (vv VersionVector) Encode() []byte {
	peers := peersOf(vv)
	buf := binary.AppendUvarint(nil, uint64(len(peers)))
	for _, p := range peers {
		buf = binary.AppendUvarint(buf, uint64(p))
		buf = binary.AppendUvarint(buf, uint64(uint32(vv.next[p])))
	}
	return buf
}

// DecodeVersionVector parses the wire format produced by
// VersionVector.Encode, with the same ErrBadFrontierBinary failure
// mode as DecodeFrontiers.
func DecodeVersionVector(data []byte) (VersionVector, error) {
	n, rest, err := readUvarint(data)
	if err != nil {
		return VersionVector{}, err
	}
	vv := NewVersionVector()
	var prevPeer Peer
	havePrev := false
	for i := uint64(0); i < n; i++ {
		var peerVal, counterVal uint64
		peerVal, rest, err = readUvarint(rest)
		if err != nil {
			return VersionVector{}, err
		}
		counterVal, rest, err = readUvarint(rest)
		if err != nil {
			return VersionVector{}, err
		}
		peer := Peer(peerVal)
		if havePrev && peer <= prevPeer {
			return VersionVector{}, ErrBadFrontierBinary
		}
		prevPeer, havePrev = peer, true
		vv.next[peer] = Counter(int32(counterVal))
	}
	return vv, nil
}

// readUvarint reads one varint from data, returning the remaining
// bytes. It reports ErrBadFrontierBinary instead of panicking on a
// short or malformed buffer, since this is the only place untrusted
// bytes enter the package.
func readUvarint(data []byte) (value uint64, rest []byte, err error) {
	v, n := binary.Uvarint(data)
	if n <= 0 {
		return 0, nil, ErrBadFrontierBinary
	}
	return v, data[n:], nil
}
