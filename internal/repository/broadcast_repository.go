package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/marizoo/marizoo-server/internal/model"
)

// BroadcastRepo provides read access to live broadcasts, the animals
// appearing in them and the feed-vote tallies collected from viewers.
type BroadcastRepo struct {
    db *sql.DB
}

// NewBroadcastRepo returns a new BroadcastRepo bound to the given database.
func NewBroadcastRepo(db *sql.DB) *BroadcastRepo { return &BroadcastRepo{db: db} }

// OnAirBroadcast is a broadcast currently streaming, with the species
// classifications of the animals on screen for thumbnail badges.
type OnAirBroadcast struct {
    ID              uint64   `json:"id"`
    StoreID         uint64   `json:"store_id"`
    SessionID       string   `json:"session_id"`
    Title           string   `json:"title"`
    Thumbnail       string   `json:"thumbnail"`
    Classifications []string `json:"classifications"`
}

// ListOnAir returns all broadcasts with ONAIR status, newest first.  The
// optional storeID narrows the list to a single store; pass zero for all
// stores.
func (r *BroadcastRepo) ListOnAir(ctx context.Context, storeID uint64) ([]OnAirBroadcast, error) {
    q := `SELECT id, store_id, session_id, title, thumbnail FROM broadcasts WHERE status = 'ONAIR'`
    args := []interface{}{}
    if storeID != 0 {
        q += ` AND store_id = ?`
        args = append(args, storeID)
    }
    q += ` ORDER BY started_at DESC`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    onAirs := make([]OnAirBroadcast, 0)
    index := make(map[uint64]int)
    for rows.Next() {
        var b OnAirBroadcast
        if err := rows.Scan(&b.ID, &b.StoreID, &b.SessionID, &b.Title, &b.Thumbnail); err != nil {
            return nil, err
        }
        b.Classifications = []string{}
        index[b.ID] = len(onAirs)
        onAirs = append(onAirs, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(onAirs) == 0 {
        return onAirs, nil
    }
    // fetch classifications for all broadcasts in a single query
    ids := make([]interface{}, 0, len(onAirs))
    placeholders := make([]string, 0, len(onAirs))
    for _, b := range onAirs {
        ids = append(ids, b.ID)
        placeholders = append(placeholders, "?")
    }
    clsQ := `SELECT ba.broadcast_id, sp.classification
             FROM broadcast_animals ba
             JOIN animals a ON a.id = ba.animal_id
             JOIN species sp ON sp.id = a.species_id
             WHERE ba.broadcast_id IN (` + strings.Join(placeholders, ",") + `)`
    crows, err := r.db.QueryContext(ctx, clsQ, ids...)
    if err != nil {
        return nil, err
    }
    defer crows.Close()
    for crows.Next() {
        var bid uint64
        var cls string
        if err := crows.Scan(&bid, &cls); err != nil {
            return nil, err
        }
        if idx, ok := index[bid]; ok {
            onAirs[idx].Classifications = append(onAirs[idx].Classifications, cls)
        }
    }
    return onAirs, crows.Err()
}

// BroadcastAnimalInfo is an animal appearing in a broadcast.
type BroadcastAnimalInfo struct {
    Name           string `json:"name"`
    Gender         string `json:"gender"`
    Classification string `json:"classification"`
}

// BroadcastDetail bundles a broadcast with its animals and the
// broadcasting store for the detail endpoint.
type BroadcastDetail struct {
    Broadcast model.Broadcast
    Animals   []BroadcastAnimalInfo
    Store     model.AnimalStore
}

// GetDetail returns one broadcast with its cast and store.
// ErrBroadcastNotFound is returned when the broadcast does not exist.
func (r *BroadcastRepo) GetDetail(ctx context.Context, broadcastID uint64) (BroadcastDetail, error) {
    const q = `SELECT b.id, b.store_id, b.session_id, b.title, b.description, b.thumbnail, b.status, b.started_at, b.ended_at,
                      s.id, s.store_name, s.tel, s.address, s.profile_img, s.lat, s.lng, s.created_at, s.updated_at
               FROM broadcasts b
               JOIN animal_stores s ON s.id = b.store_id
               WHERE b.id = ?`
    var d BroadcastDetail
    var endedAt sql.NullTime
    err := r.db.QueryRowContext(ctx, q, broadcastID).Scan(
        &d.Broadcast.ID, &d.Broadcast.StoreID, &d.Broadcast.SessionID, &d.Broadcast.Title,
        &d.Broadcast.Description, &d.Broadcast.Thumbnail, &d.Broadcast.Status,
        &d.Broadcast.StartedAt, &endedAt,
        &d.Store.ID, &d.Store.StoreName, &d.Store.Tel, &d.Store.Address, &d.Store.ProfileImg,
        &d.Store.Lat, &d.Store.Lng, &d.Store.CreatedAt, &d.Store.UpdatedAt,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return BroadcastDetail{}, ErrBroadcastNotFound
    }
    if err != nil {
        return BroadcastDetail{}, err
    }
    if endedAt.Valid {
        t := endedAt.Time
        d.Broadcast.EndedAt = &t
    }
    const castQ = `SELECT a.name, a.gender, sp.classification
                   FROM broadcast_animals ba
                   JOIN animals a ON a.id = ba.animal_id
                   JOIN species sp ON sp.id = a.species_id
                   WHERE ba.broadcast_id = ?
                   ORDER BY a.name`
    rows, err := r.db.QueryContext(ctx, castQ, broadcastID)
    if err != nil {
        return BroadcastDetail{}, err
    }
    defer rows.Close()
    d.Animals = make([]BroadcastAnimalInfo, 0)
    for rows.Next() {
        var a BroadcastAnimalInfo
        if err := rows.Scan(&a.Name, &a.Gender, &a.Classification); err != nil {
            return BroadcastDetail{}, err
        }
        d.Animals = append(d.Animals, a)
    }
    return d, rows.Err()
}

// FeedVoteResult is one feed's tally in a broadcast vote.
type FeedVoteResult struct {
    FeedName string `json:"feed_name"`
    FeedImg  string `json:"feed_img"`
    Count    uint32 `json:"count"`
}

// ListFeedVotes returns the feed-vote tallies for a broadcast, highest
// count first.  ErrBroadcastNotFound is returned when the broadcast does
// not exist.
func (r *BroadcastRepo) ListFeedVotes(ctx context.Context, broadcastID uint64) ([]FeedVoteResult, error) {
    const checkQ = `SELECT 1 FROM broadcasts WHERE id = ? LIMIT 1`
    var one int
    if err := r.db.QueryRowContext(ctx, checkQ, broadcastID).Scan(&one); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBroadcastNotFound
        }
        return nil, err
    }
    const q = `SELECT f.name, f.img, fv.count
               FROM feed_votes fv
               JOIN feeds f ON f.id = fv.feed_id
               WHERE fv.broadcast_id = ?
               ORDER BY fv.count DESC, f.name`
    rows, err := r.db.QueryContext(ctx, q, broadcastID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    votes := make([]FeedVoteResult, 0)
    for rows.Next() {
        var v FeedVoteResult
        if err := rows.Scan(&v.FeedName, &v.FeedImg, &v.Count); err != nil {
            return nil, err
        }
        votes = append(votes, v)
    }
    return votes, rows.Err()
}
