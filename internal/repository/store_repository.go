package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/marizoo/marizoo-server/internal/model"
)

// StoreRepo provides access to animal stores and the user follow
// relation (favor_stores).  Store rows are created by an out-of-scope
// management workflow; this service lists, searches and follows them.
type StoreRepo struct {
    db *sql.DB
}

// NewStoreRepo returns a new StoreRepo bound to the given database.
func NewStoreRepo(db *sql.DB) *StoreRepo { return &StoreRepo{db: db} }

const storeColumns = `id, store_name, tel, address, profile_img, lat, lng, created_at, updated_at`

func scanStores(rows *sql.Rows) ([]model.AnimalStore, error) {
    stores := make([]model.AnimalStore, 0)
    for rows.Next() {
        var s model.AnimalStore
        if err := rows.Scan(&s.ID, &s.StoreName, &s.Tel, &s.Address, &s.ProfileImg,
            &s.Lat, &s.Lng, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        stores = append(stores, s)
    }
    return stores, rows.Err()
}

// List returns all animal stores ordered by name.
func (r *StoreRepo) List(ctx context.Context) ([]model.AnimalStore, error) {
    const q = `SELECT ` + storeColumns + ` FROM animal_stores ORDER BY store_name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanStores(rows)
}

// SearchByName returns stores whose name contains the given term.
func (r *StoreRepo) SearchByName(ctx context.Context, name string) ([]model.AnimalStore, error) {
    const q = `SELECT ` + storeColumns + ` FROM animal_stores WHERE store_name LIKE ? ORDER BY store_name`
    rows, err := r.db.QueryContext(ctx, q, "%"+strings.TrimSpace(name)+"%")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanStores(rows)
}

// SearchBySpecies returns stores that own at least one animal of a
// species whose classification matches the given term.
func (r *StoreRepo) SearchBySpecies(ctx context.Context, classification string) ([]model.AnimalStore, error) {
    const q = `SELECT DISTINCT s.id, s.store_name, s.tel, s.address, s.profile_img, s.lat, s.lng, s.created_at, s.updated_at
               FROM animal_stores s
               JOIN animals a ON a.store_id = s.id
               JOIN species sp ON sp.id = a.species_id
               WHERE sp.classification LIKE ?
               ORDER BY s.store_name`
    rows, err := r.db.QueryContext(ctx, q, "%"+strings.TrimSpace(classification)+"%")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanStores(rows)
}

// GetByID returns a single store.  ErrStoreNotFound is returned when no
// store with the given ID exists.
func (r *StoreRepo) GetByID(ctx context.Context, storeID uint64) (model.AnimalStore, error) {
    const q = `SELECT ` + storeColumns + ` FROM animal_stores WHERE id = ?`
    var s model.AnimalStore
    err := r.db.QueryRowContext(ctx, q, storeID).Scan(&s.ID, &s.StoreName, &s.Tel, &s.Address,
        &s.ProfileImg, &s.Lat, &s.Lng, &s.CreatedAt, &s.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.AnimalStore{}, ErrStoreNotFound
    }
    return s, err
}

// Follow records that a user follows a store.  ErrConflict is returned
// when the user already follows it and ErrStoreNotFound when the store
// does not exist.
func (r *StoreRepo) Follow(ctx context.Context, userID, storeID uint64) error {
    if _, err := r.GetByID(ctx, storeID); err != nil {
        return err
    }
    const q = `INSERT INTO favor_stores (user_id, store_id) VALUES (?, ?)`
    if _, err := r.db.ExecContext(ctx, q, userID, storeID); err != nil {
        // MySQL 1062: duplicate entry on the (user_id, store_id) unique key
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrConflict
        }
        return err
    }
    return nil
}

// Unfollow removes a user's follow of a store.  Removing a follow that
// does not exist is a no-op.
func (r *StoreRepo) Unfollow(ctx context.Context, userID, storeID uint64) error {
    const q = `DELETE FROM favor_stores WHERE user_id = ? AND store_id = ?`
    _, err := r.db.ExecContext(ctx, q, userID, storeID)
    return err
}

// IsFollowing reports whether the user follows the store.
func (r *StoreRepo) IsFollowing(ctx context.Context, userID, storeID uint64) (bool, error) {
    const q = `SELECT 1 FROM favor_stores WHERE user_id = ? AND store_id = ? LIMIT 1`
    var one int
    err := r.db.QueryRowContext(ctx, q, userID, storeID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// ListFavorites returns the stores followed by a user, most recently
// followed first.
func (r *StoreRepo) ListFavorites(ctx context.Context, userID uint64) ([]model.AnimalStore, error) {
    const q = `SELECT s.id, s.store_name, s.tel, s.address, s.profile_img, s.lat, s.lng, s.created_at, s.updated_at
               FROM favor_stores f
               JOIN animal_stores s ON s.id = f.store_id
               WHERE f.user_id = ?
               ORDER BY f.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanStores(rows)
}
