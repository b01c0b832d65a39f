package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/marizoo/marizoo-server/internal/booking"
    "github.com/marizoo/marizoo-server/internal/queue"
    "github.com/marizoo/marizoo-server/internal/repository"
    queue_publisher "github.com/marizoo/marizoo-server/internal/service"
)

// BookingHandler exposes the reservation coordinator over HTTP.  All
// booking state changes flow through the coordinator; this layer only
// binds requests, maps the coordinator's error kinds onto stable HTTP
// responses and publishes booking events to the broker.  JWT
// authentication is performed by middleware before any method runs.
type BookingHandler struct {
    Coordinator *booking.Coordinator
    Bookings    *repository.BookingRepo
    Plays       *repository.PlayRepo

    // publish is called after a successful create or cancel.  It is a
    // field so tests can swap out the broker round-trip.
    publish func(kind string, bookID, userID, playID uint64, visitors uint32)
}

// NewBookingHandler constructs a BookingHandler.  All dependencies must
// be non-nil.
func NewBookingHandler(coord *booking.Coordinator, bookings *repository.BookingRepo, plays *repository.PlayRepo) *BookingHandler {
    if coord == nil || bookings == nil || plays == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    h := &BookingHandler{Coordinator: coord, Bookings: bookings, Plays: plays}
    h.publish = h.publishEvent
    return h
}

// bookingJSON is the wire shape of a booking returned to clients.
type bookingJSON struct {
    ID        uint64    `json:"id"`
    PlayID    uint64    `json:"play_id"`
    Visitors  uint32    `json:"visitors"`
    Status    string    `json:"status"`
    CreatedAt time.Time `json:"created_at"`
}

func toBookingJSON(b booking.Booking) bookingJSON {
    return bookingJSON{ID: b.ID, PlayID: b.PlayID, Visitors: b.Visitors, Status: b.Status, CreatedAt: b.CreatedAt}
}

// CreateBooking handles POST /v1/books.  The body carries the play ID
// and the visitor count.  Each coordinator error kind maps to its own
// response so that clients can render "fully booked" differently from
// "already reserved" or "play ended".
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        PlayID   uint64 `json:"play_id"`
        Visitors uint32 `json:"visitors"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.PlayID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "play_id is required"})
    }

    ctx := c.Request().Context()
    bookID, err := h.Coordinator.Reserve(ctx, userID, body.PlayID, body.Visitors)
    if err != nil {
        switch {
        case errors.Is(err, booking.ErrInvalidRequest):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "visitors must be at least 1"})
        case errors.Is(err, booking.ErrPlayNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
        case errors.Is(err, booking.ErrReservationClosed):
            return c.JSON(http.StatusConflict, echo.Map{"error": "reservation closed"})
        case errors.Is(err, booking.ErrDuplicateBooking):
            return c.JSON(http.StatusConflict, echo.Map{"error": "already booked"})
        case errors.Is(err, booking.ErrCapacityExceeded):
            return c.JSON(http.StatusConflict, echo.Map{"error": "fully booked"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    h.publish(queue.BookingReserved, bookID, userID, body.PlayID, body.Visitors)
    return c.JSON(http.StatusCreated, echo.Map{"book_id": bookID})
}

// GetBooking handles GET /v1/books/:id and returns the point-in-time
// state of a booking.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || bookID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid book id"})
    }
    b, err := h.Coordinator.GetResult(c.Request().Context(), bookID)
    if err != nil {
        if errors.Is(err, booking.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toBookingJSON(b)})
}

// CancelBooking handles DELETE /v1/books/:id.  Cancellation is a status
// transition, not a delete; cancelling twice reports 409 without
// releasing capacity again.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || bookID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid book id"})
    }

    cancelled, err := h.Coordinator.Cancel(c.Request().Context(), userID, bookID)
    if err != nil {
        switch {
        case errors.Is(err, booking.ErrBookingNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        case errors.Is(err, booking.ErrNotOwner):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        case errors.Is(err, booking.ErrAlreadyCancelled):
            return c.JSON(http.StatusConflict, echo.Map{"error": "already cancelled"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    h.publish(queue.BookingCancelled, cancelled.ID, cancelled.UserID, cancelled.PlayID, cancelled.Visitors)
    return c.NoContent(http.StatusNoContent)
}

// ListMyBookings handles GET /v1/my-books and returns all bookings made
// by the current user with play and store details, newest first.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    details, err := h.Bookings.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// GetAvailability handles GET /v1/plays/:id/availability.  The response
// is a snapshot for display; it makes no promise that a following
// booking with the remaining count will succeed.
func (h *BookingHandler) GetAvailability(c echo.Context) error {
    playID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || playID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid play id"})
    }
    committed, capacity, err := h.Coordinator.Availability(c.Request().Context(), playID)
    if err != nil {
        if errors.Is(err, booking.ErrPlayNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "play_id":      playID,
        "max_visitors": capacity,
        "booked":       committed,
        "remaining":    capacity - committed,
    })
}

// publishEvent enriches and publishes a booking event in the background.
// Publishing is fire-and-forget: a broker outage must never fail the
// booking request that already committed.
func (h *BookingHandler) publishEvent(kind string, bookID, userID, playID uint64, visitors uint32) {
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        ev := queue.BookingEvent{
            Kind:       kind,
            BookID:     bookID,
            UserID:     userID,
            PlayID:     playID,
            Visitors:   visitors,
            OccurredAt: time.Now().UTC().Format(time.RFC3339),
        }
        if play, err := h.Plays.GetByID(ctx, playID); err == nil {
            ev.PlayTitle = play.Title
            ev.PlayDateTime = play.PlayDateTime.Format(time.RFC3339)
        }
        _ = queue_publisher.PublishBookingEvent(ctx, ev)
    }()
}
