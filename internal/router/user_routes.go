package router

import (
    "github.com/labstack/echo/v4"

    "github.com/marizoo/marizoo-server/internal/handler"
    "github.com/marizoo/marizoo-server/internal/middleware"
)

// RegisterUser registers user-scoped endpoints under /v1.  All routes
// require a valid JWT and the USER or OWNER role.  Users can book plays,
// view and cancel their own bookings, and follow stores.  The rate
// limiter guards booking creation only; reads and cancellations are
// never throttled.
func RegisterUser(e *echo.Echo, h *handler.BookingHandler, s *handler.StoreHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("USER", "OWNER"),
    )

    // Booking lifecycle.  Creation carries the rate limiter so a client
    // cannot hammer the capacity-checked path.
    g.POST("/books", h.CreateBooking, limiter)
    g.GET("/books/:id", h.GetBooking)
    g.DELETE("/books/:id", h.CancelBooking)
    g.GET("/my-books", h.ListMyBookings)

    // Store follow relation and the user's followed-store list.
    g.POST("/stores/:id/follow", s.FollowStore)
    g.DELETE("/stores/:id/follow", s.UnfollowStore)
    g.GET("/my-stores", s.ListFavorites)
}
