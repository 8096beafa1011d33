// internal/ledger/errors.go
package ledger

import "errors"

// All ledger failures are caller-recoverable conditions, surfaced to the
// API layer for user-facing messaging. None are fatal process errors.
var (
	// ErrConflict: a confirmed booking already occupies the slot. Expected
	// under concurrent booking traffic, not a bug.
	ErrConflict = errors.New("slot already booked")
	// ErrNotFound: unknown booking, court, or club id.
	ErrNotFound = errors.New("booking not found")
	// ErrForbidden: the actor is neither the booking's creator nor staff
	// for the owning club.
	ErrForbidden = errors.New("actor not permitted")
	// ErrPastSlot: cancellation of a slot that has already started.
	ErrPastSlot = errors.New("slot already started")
	// ErrNotOpen: the requested interval is outside opening hours or off
	// the slot grid.
	ErrNotOpen = errors.New("slot outside opening hours")
)
