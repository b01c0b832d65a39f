package handler // declare the package name; contains HTTP handlers

import (
    "net/http" // net/http provides status codes and response helpers
    "time"     // time measures process uptime

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

var startedAt = time.Now().UTC() // recorded once at process start

// Health is a simple health‑check endpoint used by load balancers and
// monitoring systems to verify that the service is running.  It reports
// the service name and the process uptime with an HTTP 200 status code.
func Health(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "status":  "ok",
        "service": "marizoo-server",
        "uptime":  time.Since(startedAt).Round(time.Second).String(),
    })
}
