// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds carried in BookingEvent.Kind.
const (
    BookingReserved  = "booking.reserved"
    BookingCancelled = "booking.cancelled"
)

// BookingEvent is published whenever a booking is created or cancelled.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type BookingEvent struct {
    Kind         string `json:"kind"`
    BookID       uint64 `json:"book_id"`
    UserID       uint64 `json:"user_id"`
    PlayID       uint64 `json:"play_id"`
    PlayTitle    string `json:"play_title,omitempty"`
    PlayDateTime string `json:"play_date_time,omitempty"`
    Visitors     uint32 `json:"visitors"`
    OccurredAt   string `json:"occurred_at"`
}
