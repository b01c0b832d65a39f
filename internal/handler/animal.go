package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/marizoo/marizoo-server/internal/repository"
)

// AnimalHandler serves animal and species detail pages.  All endpoints
// are public.
type AnimalHandler struct {
    Animals *repository.AnimalRepo
    Species *repository.SpeciesRepo
}

// NewAnimalHandler constructs an AnimalHandler.
func NewAnimalHandler(animals *repository.AnimalRepo, species *repository.SpeciesRepo) *AnimalHandler {
    if animals == nil || species == nil {
        panic("nil repository passed to NewAnimalHandler")
    }
    return &AnimalHandler{Animals: animals, Species: species}
}

// GetAnimal handles GET /v1/animals/:id.  The response bundles the
// animal with its species, owning store and whether it is currently
// visible in a live broadcast.
func (h *AnimalHandler) GetAnimal(c echo.Context) error {
    animalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || animalID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid animal id"})
    }
    ctx := c.Request().Context()
    d, err := h.Animals.GetDetail(ctx, animalID)
    if err != nil {
        if errors.Is(err, repository.ErrAnimalNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "animal not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    feeds, err := h.Species.ListFeeds(ctx, d.Species.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "animal":  d.Animal,
        "species": d.Species,
        "store":   d.Store,
        "feeds":   feeds,
        "on_air":  d.OnAir,
    })
}

// GetSpecies handles GET /v1/species/:id and returns the species record
// together with the feeds suited to it.
func (h *AnimalHandler) GetSpecies(c echo.Context) error {
    speciesID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || speciesID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid species id"})
    }
    ctx := c.Request().Context()
    sp, err := h.Species.GetByID(ctx, speciesID)
    if err != nil {
        if errors.Is(err, repository.ErrSpeciesNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "species not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    feeds, err := h.Species.ListFeeds(ctx, speciesID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"species": sp, "feeds": feeds})
}
