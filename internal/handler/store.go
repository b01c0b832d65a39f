package handler

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/marizoo/marizoo-server/internal/model"
    "github.com/marizoo/marizoo-server/internal/repository"
)

// StoreHandler serves the animal-store browse surface: listing and
// searching stores, store detail with its animals and plays, and the
// follow relation.  Browse endpoints are public; follow endpoints
// require an authenticated user.
type StoreHandler struct {
    Stores  *repository.StoreRepo
    Animals *repository.AnimalRepo
    Plays   *repository.PlayRepo
}

// NewStoreHandler constructs a StoreHandler.
func NewStoreHandler(stores *repository.StoreRepo, animals *repository.AnimalRepo, plays *repository.PlayRepo) *StoreHandler {
    if stores == nil || animals == nil || plays == nil {
        panic("nil dependency passed to NewStoreHandler")
    }
    return &StoreHandler{Stores: stores, Animals: animals, Plays: plays}
}

// ListStores handles GET /v1/stores.  Two optional query parameters
// narrow the result: name matches the store name, species matches the
// classification of any animal the store owns.  When both are present
// name wins.
func (h *StoreHandler) ListStores(c echo.Context) error {
    ctx := c.Request().Context()
    var (
        stores []model.AnimalStore
        err    error
    )
    switch {
    case c.QueryParam("name") != "":
        stores, err = h.Stores.SearchByName(ctx, c.QueryParam("name"))
    case c.QueryParam("species") != "":
        stores, err = h.Stores.SearchBySpecies(ctx, c.QueryParam("species"))
    default:
        stores, err = h.Stores.List(ctx)
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stores"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": stores, "count": len(stores)})
}

// GetStore handles GET /v1/stores/:id.  The response bundles the store
// with its animals and upcoming plays.  When the request carries a valid
// access token the response also reports whether the caller follows the
// store; anonymous callers get "following": false.
func (h *StoreHandler) GetStore(c echo.Context) error {
    storeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || storeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store id"})
    }
    ctx := c.Request().Context()

    store, err := h.Stores.GetByID(ctx, storeID)
    if err != nil {
        if errors.Is(err, repository.ErrStoreNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "store not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    animals, err := h.Animals.ListByStore(ctx, storeID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    plays, err := h.Plays.ListByStore(ctx, storeID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    following := false
    if userID, err := getUserID(c); err == nil {
        following, err = h.Stores.IsFollowing(ctx, userID, storeID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }

    return c.JSON(http.StatusOK, echo.Map{
        "store":     store,
        "animals":   animals,
        "plays":     plays,
        "following": following,
    })
}

// GetPlay handles GET /v1/plays/:id and returns the full program
// information for one play.  The closed flag tells clients whether the
// play can still be booked; a play closes the moment it starts.
func (h *StoreHandler) GetPlay(c echo.Context) error {
    playID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || playID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid play id"})
    }
    play, err := h.Plays.GetByID(c.Request().Context(), playID)
    if err != nil {
        if errors.Is(err, repository.ErrPlayNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "play not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "item":   play,
        "closed": !time.Now().UTC().Before(play.PlayDateTime),
    })
}

// FollowStore handles POST /v1/stores/:id/follow.
func (h *StoreHandler) FollowStore(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    storeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || storeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store id"})
    }
    if err := h.Stores.Follow(c.Request().Context(), userID, storeID); err != nil {
        switch {
        case errors.Is(err, repository.ErrStoreNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "store not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "already following"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"message": "following"})
}

// UnfollowStore handles DELETE /v1/stores/:id/follow.  Unfollowing a
// store the user never followed succeeds silently.
func (h *StoreHandler) UnfollowStore(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    storeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || storeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store id"})
    }
    if err := h.Stores.Unfollow(c.Request().Context(), userID, storeID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListFavorites handles GET /v1/my-stores and returns the stores the
// current user follows, most recently followed first.
func (h *StoreHandler) ListFavorites(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    stores, err := h.Stores.ListFavorites(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stores"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": stores, "count": len(stores)})
}
