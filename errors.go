package yata

import (
	"errors"
	"fmt"
)

// Error kinds (spec.md §7). MissingDependency and MalformedInput are
// recoverable and returned to the caller with enough context to
// retry/requeue. InvariantViolated and ConcurrencyBug are fatal: they
// are raised as panics via invariant(), matching the teacher's
// debug-assert-never-recovered-from posture for structural corruption.
var (
	// ErrMissingDependency is returned by Tracker.Integrate when an op
	// references an ID not yet covered by the tracker's head version
	// vector. The caller should queue the op and retry once its
	// dependency has been integrated.
	ErrMissingDependency = errors.New("yata: missing dependency")

	// ErrMalformedInput wraps decode failures such as
	// ErrBadFrontierBinary.
	ErrMalformedInput = errors.New("yata: malformed input")

	// ErrBadFrontierBinary is returned by DecodeFrontiers /
	// DecodeVersionVector when the payload is short or its peers are
	// not strictly ascending.
	ErrBadFrontierBinary = fmt.Errorf("%w: bad frontier binary", ErrMalformedInput)

	// ErrInvariantViolated marks tree/cache/origin corruption. Treated
	// as fatal: raised via invariant(), never returned as a normal
	// error value.
	ErrInvariantViolated = errors.New("yata: invariant violated")

	// ErrConcurrencyBug marks re-entrant mutation of a Tracker, which
	// the single-threaded-per-tracker model (spec.md §5) forbids.
	ErrConcurrencyBug = errors.New("yata: concurrency bug")
)

// invariant panics with an error satisfying errors.Is(_, ErrInvariantViolated)
// when cond is false. Used at the points spec.md §7 calls fatal:
// broken tree structure, broken cache, or a monotonicity violation.
// Debug-assert, not a recoverable error: callers are not expected to
// recover from it in production use.
func invariant(cond bool, msg string) {
	if !cond {
		panic(fmt.Errorf("%w: %s", ErrInvariantViolated, msg))
	}
}

// guardReentry panics with ErrConcurrencyBug if entered is already
// true, and returns a function that must be deferred to clear the
// flag. Only used around Tracker's exported mutating methods.
func guardReentry(entered *bool) func() {
	if *entered {
		panic(fmt.Errorf("%w: re-entrant tracker mutation", ErrConcurrencyBug))
	}
	*entered = true
	return func() { *entered = false }
}
