package middleware // middleware provides shared request processing for handlers

import (
    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireRole returns a middleware that lets the request through only when
// the session stored by SessionAuth carries one of roles.  Otherwise deny
// writes the response, so API groups answer 401 and page groups redirect,
// the same as for a missing session.
func RequireRole(deny DenyFunc, roles ...string) echo.MiddlewareFunc {
    if deny == nil {
        deny = DenyJSON
    }
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            cl, ok := ClaimsFrom(c)
            if !ok || !allowed[cl.Role] {
                return deny(c)
            }
            return next(c)
        }
    }
}
