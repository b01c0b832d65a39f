package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/marizoo/marizoo-server/internal/booking"
    "github.com/marizoo/marizoo-server/internal/model"
)

// PlayRepo provides read access to experience programs (plays).  Plays
// are created by the store-management workflow; this service only lists
// and resolves them, and feeds the booking coordinator through the
// PlayCatalog interface.  All timestamps are stored in UTC.
type PlayRepo struct {
    db *sql.DB
}

// NewPlayRepo returns a new PlayRepo bound to the given database.
func NewPlayRepo(db *sql.DB) *PlayRepo { return &PlayRepo{db: db} }

const playColumns = `id, store_id, title, description, play_datetime, max_visitors, running_time, notice, img, created_at, updated_at`

func scanPlay(row *sql.Row) (model.Play, error) {
    var p model.Play
    err := row.Scan(&p.ID, &p.StoreID, &p.Title, &p.Description, &p.PlayDateTime,
        &p.MaxVisitors, &p.RunningTime, &p.Notice, &p.Img, &p.CreatedAt, &p.UpdatedAt)
    return p, err
}

// GetByID returns a single play.  ErrPlayNotFound is returned when no
// play with the given ID exists.
func (r *PlayRepo) GetByID(ctx context.Context, playID uint64) (model.Play, error) {
    const q = `SELECT ` + playColumns + ` FROM plays WHERE id = ?`
    p, err := scanPlay(r.db.QueryRowContext(ctx, q, playID))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Play{}, ErrPlayNotFound
    }
    return p, err
}

// ListByStore returns all plays offered by a store, soonest first.
// When the store has no plays an empty slice is returned.
func (r *PlayRepo) ListByStore(ctx context.Context, storeID uint64) ([]model.Play, error) {
    const q = `SELECT ` + playColumns + ` FROM plays WHERE store_id = ? ORDER BY play_datetime ASC`
    rows, err := r.db.QueryContext(ctx, q, storeID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    plays := make([]model.Play, 0)
    for rows.Next() {
        var p model.Play
        if err := rows.Scan(&p.ID, &p.StoreID, &p.Title, &p.Description, &p.PlayDateTime,
            &p.MaxVisitors, &p.RunningTime, &p.Notice, &p.Img, &p.CreatedAt, &p.UpdatedAt); err != nil {
            return nil, err
        }
        plays = append(plays, p)
    }
    return plays, rows.Err()
}

// GetPlay implements booking.PlayCatalog.  Absence is reported through
// the ok result so the coordinator can tell "no such play" apart from a
// database fault.
func (r *PlayRepo) GetPlay(ctx context.Context, playID uint64) (booking.Play, bool, error) {
    const q = `SELECT id, max_visitors, play_datetime FROM plays WHERE id = ?`
    var p booking.Play
    err := r.db.QueryRowContext(ctx, q, playID).Scan(&p.ID, &p.MaxVisitors, &p.PlayDateTime)
    if errors.Is(err, sql.ErrNoRows) {
        return booking.Play{}, false, nil
    }
    if err != nil {
        return booking.Play{}, false, err
    }
    return p, true, nil
}
