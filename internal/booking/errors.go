// Package booking implements the capacity-bounded reservation core for
// experience programs ("plays").  A play has a fixed maximum number of
// visitors; concurrent booking requests against the same play must never
// push the committed visitor total past that maximum.  The package exposes
// a Coordinator as the sole entry point for booking state changes and a
// CapacityLedger as the authoritative per-play visitor counter.
//
// This file defines the sentinel errors returned by the Coordinator.  Each
// value represents a distinct, expected business outcome so that handlers
// can map them onto stable HTTP responses ("fully booked" must render
// differently from "already reserved" or "play ended").  Anything that is
// not one of these sentinels is an infrastructure fault (database down,
// connection reset) and is returned wrapped; callers may retry those with
// backoff but must never retry the business outcomes automatically.
package booking

import "errors"

// ErrInvalidRequest is returned when the request itself is malformed,
// for example a non-positive visitor count.
var ErrInvalidRequest = errors.New("invalid booking request")

// ErrPlayNotFound is returned when the referenced play does not exist
// in the catalog.
var ErrPlayNotFound = errors.New("play not found")

// ErrReservationClosed is returned when the play's scheduled time has
// already passed.  Closed plays reject bookings regardless of remaining
// capacity.
var ErrReservationClosed = errors.New("reservation closed")

// ErrDuplicateBooking is returned when the requester already holds a
// RESERVED booking for the same play.  Re-booking requires cancelling
// the existing booking first.
var ErrDuplicateBooking = errors.New("duplicate booking")

// ErrCapacityExceeded is returned when the requested visitor count does
// not fit into the play's remaining capacity at commit time.  A caller
// may choose to retry with a smaller party; the coordinator itself never
// retries.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrBookingNotFound is returned by Cancel and GetResult when no booking
// with the given identifier exists.
var ErrBookingNotFound = errors.New("booking not found")

// ErrNotOwner is returned when a caller attempts to cancel a booking that
// belongs to a different user.
var ErrNotOwner = errors.New("not booking owner")

// ErrAlreadyCancelled is returned when cancelling a booking whose status
// is already CANCELLED.  The first cancel wins; repeats are reported with
// this distinguishable outcome and never release capacity twice.
var ErrAlreadyCancelled = errors.New("booking already cancelled")
