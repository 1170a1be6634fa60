package game

import "errors"

// Engine error taxonomy. All of these are recoverable at the caller's
// boundary: a rejected call leaves the table state untouched, so the caller
// may re-prompt for a corrected request.
var (
	// ErrInvalidAction is returned when an action is illegal for the
	// current betting state. The engine never retries on the caller's
	// behalf.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidHandOverride is returned when a manual hole-card override
	// is requested postflop, names an unknown player, or carries a
	// malformed card token.
	ErrInvalidHandOverride = errors.New("invalid hand override")

	// ErrUnsupportedTableSize is returned for table sizes outside the
	// supported set (6 or 9 seats).
	ErrUnsupportedTableSize = errors.New("unsupported table size")
)
