package model

import "errors"

// Domain error taxonomy. All of these are expected, user-correctable or
// user-reportable conditions; persistence failures are wrapped separately
// and treated as transient.
var (
	// ErrInvalidTimestamp marks a malformed or out-of-range epoch timestamp.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrInvalidConfig marks contradictory or unrecognized schedule/event
	// parameters (bad interval, unknown enum value, weekly without a day).
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound marks a referenced schedule or event that no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an authorization failure: signup-mode gating, or an
	// edit/delete by someone other than the creator or a privileged caller.
	ErrForbidden = errors.New("forbidden")

	// ErrCapacityExceeded marks an "available" signup against a full event.
	ErrCapacityExceeded = errors.New("event is full")
)
