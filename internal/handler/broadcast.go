package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/marizoo/marizoo-server/internal/repository"
)

// BroadcastHandler serves the live-broadcast browse surface: the on-air
// grid, broadcast detail with its cast, and feed-vote tallies.  All
// endpoints are public.
type BroadcastHandler struct {
    Broadcasts *repository.BroadcastRepo
}

// NewBroadcastHandler constructs a BroadcastHandler.
func NewBroadcastHandler(broadcasts *repository.BroadcastRepo) *BroadcastHandler {
    if broadcasts == nil {
        panic("nil repository passed to NewBroadcastHandler")
    }
    return &BroadcastHandler{Broadcasts: broadcasts}
}

// ListOnAir handles GET /v1/broadcasts.  The optional store_id query
// parameter narrows the grid to one store's broadcasts.
func (h *BroadcastHandler) ListOnAir(c echo.Context) error {
    var storeID uint64
    if raw := c.QueryParam("store_id"); raw != "" {
        id, err := strconv.ParseUint(raw, 10, 64)
        if err != nil || id == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store_id"})
        }
        storeID = id
    }
    items, err := h.Broadcasts.ListOnAir(c.Request().Context(), storeID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load broadcasts"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// GetBroadcast handles GET /v1/broadcasts/:id.  The response bundles the
// broadcast with the animals on screen and the broadcasting store.
func (h *BroadcastHandler) GetBroadcast(c echo.Context) error {
    broadcastID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || broadcastID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid broadcast id"})
    }
    d, err := h.Broadcasts.GetDetail(c.Request().Context(), broadcastID)
    if err != nil {
        if errors.Is(err, repository.ErrBroadcastNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "broadcast not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "broadcast": d.Broadcast,
        "animals":   d.Animals,
        "store":     d.Store,
    })
}

// ListFeedVotes handles GET /v1/broadcasts/:id/votes and returns the
// feed-vote tallies for a broadcast, highest count first.
func (h *BroadcastHandler) ListFeedVotes(c echo.Context) error {
    broadcastID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || broadcastID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid broadcast id"})
    }
    votes, err := h.Broadcasts.ListFeedVotes(c.Request().Context(), broadcastID)
    if err != nil {
        if errors.Is(err, repository.ErrBroadcastNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "broadcast not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": votes, "count": len(votes)})
}
