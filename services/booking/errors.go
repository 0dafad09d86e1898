package booking

import "errors"

var (
	// ErrPastBooking rejects datetimes at or before now.
	ErrPastBooking = errors.New("past booking not allowed")
	// ErrInvalidSlot rejects datetimes outside the allowed hours.
	ErrInvalidSlot = errors.New("invalid time slot")
	// ErrMissingZone rejects datetimes that did not carry an explicit offset.
	ErrMissingZone = errors.New("timezone required")
)
