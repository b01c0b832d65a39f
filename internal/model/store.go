package model

import "time"

// AnimalStore represents a physical animal store on the platform.  Stores
// own animals, run live broadcasts and offer experience programs (plays).
//
// Fields:
//  ID         – primary key identifier.
//  StoreName  – display name of the store.
//  Tel        – contact phone number.
//  Address    – street address.
//  ProfileImg – profile image URL.
//  Lat, Lng   – geographic coordinates for map display.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type AnimalStore struct {
    ID         uint64    // animal_stores.id
    StoreName  string    // animal_stores.store_name
    Tel        string    // animal_stores.tel
    Address    string    // animal_stores.address
    ProfileImg string    // animal_stores.profile_img
    Lat        float64   // animal_stores.lat
    Lng        float64   // animal_stores.lng
    CreatedAt  time.Time // animal_stores.created_at
    UpdatedAt  time.Time // animal_stores.updated_at
}

// The follow relation lives in the favor_stores table: one row per
// (user, store) pair, unique on the pair.  It is manipulated through
// StoreRepo and never surfaces as its own entity.
