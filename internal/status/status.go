// Package status defines the sentinel errors of the reservation core.
// Handlers translate these to HTTP errors; services wrap them with context
// via fmt.Errorf and %w so callers can match with errors.Is.
package status

import "errors"

var (
	// ErrInvalidRange reports a time range whose start is not strictly
	// before its end, or that failed to parse at all.
	ErrInvalidRange = errors.New("range: start must be before end")

	// ErrValidation reports malformed input: missing required fields,
	// length bounds, unknown enum values. Always recoverable by the caller.
	ErrValidation = errors.New("validation: invalid input")

	// ErrUnauthorized reports that the actor's role or ownership does not
	// permit the attempted action. Distinct from validation on purpose so
	// callers can tell "bad input" from "not allowed".
	ErrUnauthorized = errors.New("authz: action not permitted for actor")

	// ErrConflict reports an overlapping active booking on the same venue
	// and date, or a lost slot-lock race. The caller picks a new time or
	// retries the availability check.
	ErrConflict = errors.New("booking: time slot conflict")

	// ErrCapacityExceeded reports a guest count above the venue capacity.
	ErrCapacityExceeded = errors.New("booking: guest count exceeds venue capacity")

	// ErrVenueNotApproved reports a booking attempt against a venue that
	// has not passed listing verification.
	ErrVenueNotApproved = errors.New("venue: listing not approved for bookings")

	// ErrInvalidTransition reports a status change the entity's transition
	// table does not permit from its current state.
	ErrInvalidTransition = errors.New("state: transition not permitted")

	// ErrTerminalState reports a mutation attempt on an entity that has
	// already reached a terminal (absorbing) state.
	ErrTerminalState = errors.New("state: entity already in terminal state")

	// ErrNotFound reports a reference that does not resolve to a record.
	ErrNotFound = errors.New("record not found")
)
