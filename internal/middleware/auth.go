package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "errors"   // errors provides Is for sentinel comparison
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/todo-list-api/internal/repository"
    "github.com/iliyamo/todo-list-api/internal/utils"
)

// TokenAuth returns an Echo middleware that validates an opaque bearer
// token presented as `Authorization: Token <value>` and injects the owning
// user's ID into the request context. Tokens are matched by SHA-256 hash
// against the auth_tokens table, so a token revoked by logout stops
// resolving on the very next request. Handlers behind this middleware read
// the caller via `c.Get("user_id")`.
func TokenAuth(tokens *repository.TokenRepo) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header is "Token " followed by the raw token value.
            // Anything else means the caller is unauthenticated.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Token ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
            }
            raw := strings.TrimSpace(strings.TrimPrefix(auth, "Token "))
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
            }

            // Look up the hash. Unknown, revoked and expired tokens are
            // indistinguishable to the caller.
            uid, err := tokens.Resolve(c.Request().Context(), utils.HashTokenRaw(raw))
            if err != nil {
                if errors.Is(err, repository.ErrTokenNotFound) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "auth lookup failed"})
            }

            c.Set("user_id", uid)
            return next(c)
        }
    }
}
