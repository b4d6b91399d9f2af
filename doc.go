// Package yata implements the sequence CRDT core used to integrate
// concurrent text/list edits with deterministic convergence across
// replicas: a YATA-style insertion algorithm, a run-length-encoded
// ordered tree of spans (RleTree), a secondary cursor index
// (CursorMap), and the Tracker that ties them together with a version
// vector so state can be retreated, forwarded, or checked out against
// an arbitrary version.
//
// The hard part of a collaborative editor is ordering concurrent
// inserts the same way on every replica without coordination. This
// package does exactly that and nothing else: value serialization,
// the container registry (maps/trees/text wrappers), delta/event
// dispatch, and wire-format snapshot encoders live one layer up and
// are not this package's concern.
package yata
