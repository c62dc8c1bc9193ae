package middleware

// identity.go defines helper functions shared across middleware files. Currently
// it provides a staffKey extraction function that pulls the staff identity
// stored in the Echo context by JWTAuth. When no staff member is authenticated,
// "anon" is returned so unauthenticated traffic shares a bucket.

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// staffKey extracts a staff identifier from the context for rate-limit
// bucketing. It returns "anon" when no staff member is authenticated.
func staffKey(c echo.Context) string {
    v := c.Get("staff_id")
    if v == nil {
        return "anon"
    }
    switch id := v.(type) {
    case float64:
        return fmt.Sprintf("%.0f", id)
    case uint64:
        return fmt.Sprintf("%d", id)
    case string:
        if id != "" {
            return id
        }
    }
    return "anon"
}
