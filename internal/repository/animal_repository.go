package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/marizoo/marizoo-server/internal/model"
)

// AnimalRepo provides read access to animals and their species.
type AnimalRepo struct {
    db *sql.DB
}

// NewAnimalRepo returns a new AnimalRepo bound to the given database.
func NewAnimalRepo(db *sql.DB) *AnimalRepo { return &AnimalRepo{db: db} }

const animalColumns = `id, store_id, species_id, name, gender, feature, length, weight, age, img, created_at, updated_at`

// ListByStore returns all animals owned by a store.
func (r *AnimalRepo) ListByStore(ctx context.Context, storeID uint64) ([]model.Animal, error) {
    const q = `SELECT ` + animalColumns + ` FROM animals WHERE store_id = ? ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q, storeID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    animals := make([]model.Animal, 0)
    for rows.Next() {
        var a model.Animal
        if err := rows.Scan(&a.ID, &a.StoreID, &a.SpeciesID, &a.Name, &a.Gender, &a.Feature,
            &a.Length, &a.Weight, &a.Age, &a.Img, &a.CreatedAt, &a.UpdatedAt); err != nil {
            return nil, err
        }
        animals = append(animals, a)
    }
    return animals, rows.Err()
}

// AnimalDetail bundles an animal with its owning store, its species and
// whether the animal is currently on air in a live broadcast.  It backs
// the animal detail endpoint.
type AnimalDetail struct {
    Animal  model.Animal
    Store   model.AnimalStore
    Species model.Species
    OnAir   bool
}

// GetDetail returns the full detail for one animal.  ErrAnimalNotFound
// is returned when the animal does not exist.
func (r *AnimalRepo) GetDetail(ctx context.Context, animalID uint64) (AnimalDetail, error) {
    const q = `SELECT a.id, a.store_id, a.species_id, a.name, a.gender, a.feature, a.length, a.weight, a.age, a.img, a.created_at, a.updated_at,
                      s.id, s.store_name, s.tel, s.address, s.profile_img, s.lat, s.lng, s.created_at, s.updated_at,
                      sp.id, sp.classification, sp.classification_img, sp.habitat, sp.life_span, sp.info
               FROM animals a
               JOIN animal_stores s ON s.id = a.store_id
               JOIN species sp ON sp.id = a.species_id
               WHERE a.id = ?`
    var d AnimalDetail
    err := r.db.QueryRowContext(ctx, q, animalID).Scan(
        &d.Animal.ID, &d.Animal.StoreID, &d.Animal.SpeciesID, &d.Animal.Name, &d.Animal.Gender,
        &d.Animal.Feature, &d.Animal.Length, &d.Animal.Weight, &d.Animal.Age, &d.Animal.Img,
        &d.Animal.CreatedAt, &d.Animal.UpdatedAt,
        &d.Store.ID, &d.Store.StoreName, &d.Store.Tel, &d.Store.Address, &d.Store.ProfileImg,
        &d.Store.Lat, &d.Store.Lng, &d.Store.CreatedAt, &d.Store.UpdatedAt,
        &d.Species.ID, &d.Species.Classification, &d.Species.ClassificationImg,
        &d.Species.Habitat, &d.Species.LifeSpan, &d.Species.Info,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return AnimalDetail{}, ErrAnimalNotFound
    }
    if err != nil {
        return AnimalDetail{}, err
    }
    // on-air status is derived from live broadcasts featuring this animal
    const onAirQ = `SELECT 1
                    FROM broadcast_animals ba
                    JOIN broadcasts b ON b.id = ba.broadcast_id
                    WHERE ba.animal_id = ? AND b.status = 'ONAIR'
                    LIMIT 1`
    var one int
    err = r.db.QueryRowContext(ctx, onAirQ, animalID).Scan(&one)
    switch {
    case errors.Is(err, sql.ErrNoRows):
        d.OnAir = false
    case err != nil:
        return AnimalDetail{}, err
    default:
        d.OnAir = true
    }
    return d, nil
}
