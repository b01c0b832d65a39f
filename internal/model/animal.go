package model

import "time"

// Animal represents a single animal owned by a store.  Animals belong to
// a species and may appear in live broadcasts.
//
// Fields:
//  ID        – primary key identifier.
//  StoreID   – owning animal store.
//  SpeciesID – species of the animal.
//  Name      – the animal's given name.
//  Gender    – free-form gender string (e.g. "M", "F").
//  Feature   – notable characteristics.
//  Length    – body length in centimeters.
//  Weight    – weight in grams.
//  Age       – age in months.
//  Img       – photo URL.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Animal struct {
    ID        uint64    // animals.id
    StoreID   uint64    // animals.store_id
    SpeciesID uint64    // animals.species_id
    Name      string    // animals.name
    Gender    string    // animals.gender
    Feature   string    // animals.feature
    Length    float64   // animals.length
    Weight    float64   // animals.weight
    Age       uint32    // animals.age
    Img       string    // animals.img
    CreatedAt time.Time // animals.created_at
    UpdatedAt time.Time // animals.updated_at
}
