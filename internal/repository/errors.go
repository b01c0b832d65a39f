// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrConflict signals that an operation cannot proceed
// because of conflicting existing records.
package repository

import "errors"

// ErrConflict is returned when a write cannot be performed because of
// conflicting state, such as following a store that is already
// followed. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrPlayNotFound is returned when a play lookup by ID matches no row.
var ErrPlayNotFound = errors.New("play not found")

// ErrStoreNotFound is returned when an animal store lookup by ID
// matches no row.
var ErrStoreNotFound = errors.New("store not found")

// ErrBroadcastNotFound is returned when a broadcast lookup by ID
// matches no row.
var ErrBroadcastNotFound = errors.New("broadcast not found")

// ErrAnimalNotFound is returned when an animal lookup by ID matches
// no row.
var ErrAnimalNotFound = errors.New("animal not found")

// ErrSpeciesNotFound is returned when a species lookup by ID matches
// no row.
var ErrSpeciesNotFound = errors.New("species not found")
