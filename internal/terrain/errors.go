package terrain

import "errors"

// Errors returned by the terrain package. All of them are caller-contract
// violations: the traversal never legitimately produces these call patterns,
// so callers surface them and stop processing the offending tile instead of
// retrying.
var (
	// ErrArgument reports a malformed quadrant or codec index.
	ErrArgument = errors.New("terrain: invalid argument")

	// ErrState reports an operation on a tile whose lifecycle state does
	// not allow it (subdividing a non-leaf, re-initializing a live tile,
	// a tile parented to itself).
	ErrState = errors.New("terrain: invalid tile state")

	// ErrCodeOverflow reports an address too deep for the position code.
	ErrCodeOverflow = errors.New("terrain: position code overflow")
)
