package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/marizoo/marizoo-server/internal/model"
)

// SpeciesRepo provides read access to species and the feeds suited to
// them.
type SpeciesRepo struct {
    db *sql.DB
}

// NewSpeciesRepo returns a new SpeciesRepo bound to the given database.
func NewSpeciesRepo(db *sql.DB) *SpeciesRepo { return &SpeciesRepo{db: db} }

// GetByID returns a single species.  ErrSpeciesNotFound is returned
// when no species with the given ID exists.
func (r *SpeciesRepo) GetByID(ctx context.Context, speciesID uint64) (model.Species, error) {
    const q = `SELECT id, classification, classification_img, habitat, life_span, info FROM species WHERE id = ?`
    var s model.Species
    err := r.db.QueryRowContext(ctx, q, speciesID).Scan(&s.ID, &s.Classification,
        &s.ClassificationImg, &s.Habitat, &s.LifeSpan, &s.Info)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Species{}, ErrSpeciesNotFound
    }
    return s, err
}

// ListFeeds returns the feeds suitable for a species, via the
// species_feeds join table.
func (r *SpeciesRepo) ListFeeds(ctx context.Context, speciesID uint64) ([]model.Feed, error) {
    const q = `SELECT f.id, f.name, f.img
               FROM species_feeds sf
               JOIN feeds f ON f.id = sf.feed_id
               WHERE sf.species_id = ?
               ORDER BY f.name`
    rows, err := r.db.QueryContext(ctx, q, speciesID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    feeds := make([]model.Feed, 0)
    for rows.Next() {
        var f model.Feed
        if err := rows.Scan(&f.ID, &f.Name, &f.Img); err != nil {
            return nil, err
        }
        feeds = append(feeds, f)
    }
    return feeds, rows.Err()
}
