package middleware

// identity.go provides OptionalJWTAuth, a softer variant of JWTAuth for
// public routes whose responses are personalized when a valid token is
// present (for example the store detail page, which reports whether the
// caller follows the store). An absent or invalid token never rejects
// the request; it simply leaves the context without user claims.

import (
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// OptionalJWTAuth parses a Bearer access token when one is supplied and
// injects the subject and role claims into the request context, exactly
// as JWTAuth does. Unlike JWTAuth it never responds with 401: requests
// without a usable token proceed anonymously.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return next(c)
            }
            raw := strings.TrimPrefix(auth, "Bearer ")
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return next(c)
            }
            if claims, ok := tok.Claims.(jwt.MapClaims); ok {
                c.Set("user_id", claims["sub"])
                c.Set("role", claims["role"])
            }
            return next(c)
        }
    }
}
