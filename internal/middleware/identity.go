package middleware

// identity.go defines helpers shared across middleware files. The rate
// limiter and the response cache both need a stable identifier for the
// caller; TokenAuth stores the resolved user id in the context, and
// requests that never passed TokenAuth count as "anon".

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// userID extracts the authenticated user's id from the context as a
// string. It returns "anon" when no user is authenticated.
func userID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case uint64:
        return strconv.FormatUint(v, 10)
    case string:
        if v != "" {
            return v
        }
    }
    return "anon"
}
