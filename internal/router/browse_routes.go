package router

import (
    "github.com/labstack/echo/v4"

    "github.com/marizoo/marizoo-server/internal/handler"
    "github.com/marizoo/marizoo-server/internal/middleware"
)

// RegisterBrowse registers the unauthenticated browse surface: stores,
// animals, species, plays and live broadcasts.  No JWT is required, but
// OptionalJWTAuth runs first so that store detail can personalize its
// "following" flag for logged-in callers.  The cache middleware wraps
// the whole group; anonymous GET responses are served from Redis when
// caching is enabled.
func RegisterBrowse(e *echo.Echo, s *handler.StoreHandler, a *handler.AnimalHandler, b *handler.BroadcastHandler, bk *handler.BookingHandler, jwtSecret string, cache echo.MiddlewareFunc) {
    g := e.Group("/v1", middleware.OptionalJWTAuth(jwtSecret), cache)

    // Store listing and search.  ?name= and ?species= narrow the result.
    g.GET("/stores", s.ListStores)
    // Store detail with its animals, plays and the caller's follow state.
    g.GET("/stores/:id", s.GetStore)

    // Animal and species detail pages.
    g.GET("/animals/:id", a.GetAnimal)
    g.GET("/species/:id", a.GetSpecies)

    // Play program detail and its live availability snapshot.  The
    // availability endpoint is intentionally uncached: remaining counts
    // must reflect bookings committed seconds ago.
    g.GET("/plays/:id", s.GetPlay)
    e.GET("/v1/plays/:id/availability", bk.GetAvailability)

    // Live broadcast grid, detail and feed-vote tallies.
    g.GET("/broadcasts", b.ListOnAir)
    g.GET("/broadcasts/:id", b.GetBroadcast)
    g.GET("/broadcasts/:id/votes", b.ListFeedVotes)
}
