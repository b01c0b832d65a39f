package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/marizoo/marizoo-server/internal/booking"
)

// BookingRepo is the durable reservation store.  One row per booking;
// cancellation is a status transition, never a delete.  The repo
// implements booking.BookingStore so the coordinator can persist
// outcomes without knowing about SQL, and additionally offers listing
// queries for the user-facing endpoints.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Insert persists a new booking row and populates the generated ID on
// the provided record.
func (r *BookingRepo) Insert(ctx context.Context, b *booking.Booking) (uint64, error) {
    const q = `INSERT INTO bookings (user_id, play_id, visitors, status) VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, b.UserID, b.PlayID, b.Visitors, b.Status)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    b.ID = uint64(id)
    return b.ID, nil
}

// UpdateStatus sets the status of a booking.
func (r *BookingRepo) UpdateStatus(ctx context.Context, bookingID uint64, status string) error {
    const q = `UPDATE bookings SET status = ? WHERE id = ?`
    _, err := r.db.ExecContext(ctx, q, status, bookingID)
    return err
}

// FindByID returns a booking by its identifier.  Absence is reported
// through the ok result.
func (r *BookingRepo) FindByID(ctx context.Context, bookingID uint64) (booking.Booking, bool, error) {
    const q = `SELECT id, user_id, play_id, visitors, status, created_at FROM bookings WHERE id = ?`
    var b booking.Booking
    err := r.db.QueryRowContext(ctx, q, bookingID).Scan(&b.ID, &b.UserID, &b.PlayID, &b.Visitors, &b.Status, &b.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return booking.Booking{}, false, nil
    }
    if err != nil {
        return booking.Booking{}, false, err
    }
    return b, true, nil
}

// FindActiveByUserAndPlay returns the user's RESERVED booking for the
// play, if one exists.  Cancelled bookings do not count: a user who
// cancelled may book the same play again.
func (r *BookingRepo) FindActiveByUserAndPlay(ctx context.Context, userID, playID uint64) (booking.Booking, bool, error) {
    const q = `SELECT id, user_id, play_id, visitors, status, created_at
               FROM bookings WHERE user_id = ? AND play_id = ? AND status = 'RESERVED' LIMIT 1`
    var b booking.Booking
    err := r.db.QueryRowContext(ctx, q, userID, playID).Scan(&b.ID, &b.UserID, &b.PlayID, &b.Visitors, &b.Status, &b.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return booking.Booking{}, false, nil
    }
    if err != nil {
        return booking.Booking{}, false, err
    }
    return b, true, nil
}

// SumReservedVisitors recomputes a play's committed visitor count from
// the store.  The booking coordinator uses it to seed the in-process
// capacity ledger; the ledger must always equal this sum.
func (r *BookingRepo) SumReservedVisitors(ctx context.Context, playID uint64) (uint32, error) {
    const q = `SELECT COALESCE(SUM(visitors), 0) FROM bookings WHERE play_id = ? AND status = 'RESERVED'`
    var sum uint32
    err := r.db.QueryRowContext(ctx, q, playID).Scan(&sum)
    return sum, err
}

// BookingDetail is a booking joined with its play and store for display
// to the owning user.
type BookingDetail struct {
    ID           uint64    `json:"id"`
    PlayID       uint64    `json:"play_id"`
    PlayTitle    string    `json:"play_title"`
    PlayDateTime time.Time `json:"play_datetime"`
    StoreID      uint64    `json:"store_id"`
    StoreName    string    `json:"store_name"`
    Visitors     uint32    `json:"visitors"`
    Status       string    `json:"status"`
    CreatedAt    time.Time `json:"created_at"`
}

// ListByUser returns all bookings made by the given user, newest first,
// together with play and store information.  When no bookings exist an
// empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
    const q = `SELECT b.id, b.play_id, p.title, p.play_datetime, s.id, s.store_name,
                      b.visitors, b.status, b.created_at
               FROM bookings b
               JOIN plays p ON p.id = b.play_id
               JOIN animal_stores s ON s.id = p.store_id
               WHERE b.user_id = ?
               ORDER BY b.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]BookingDetail, 0)
    for rows.Next() {
        var d BookingDetail
        if err := rows.Scan(&d.ID, &d.PlayID, &d.PlayTitle, &d.PlayDateTime, &d.StoreID,
            &d.StoreName, &d.Visitors, &d.Status, &d.CreatedAt); err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    return details, rows.Err()
}
