package middleware

// identity.go holds the helpers that read and write the verified session on
// the Echo context. When no session is present userID returns "guest".

import (
    "github.com/labstack/echo/v4"

    "github.com/bandoneon/soundbank/internal/model"
)

const (
    ctxClaims = "claims"
    ctxUserID = "user_id"
    ctxRole   = "role"
)

func setClaims(c echo.Context, cl *model.Claims) {
    c.Set(ctxClaims, cl)
    c.Set(ctxUserID, cl.Subject)
    c.Set(ctxRole, cl.Role)
}

// ClaimsFrom returns the claims stored by SessionAuth.
func ClaimsFrom(c echo.Context) (*model.Claims, bool) {
    cl, ok := c.Get(ctxClaims).(*model.Claims)
    return cl, ok && cl != nil
}

// userID returns the session subject or "guest".
func userID(c echo.Context) string {
    if cl, ok := ClaimsFrom(c); ok && cl.Subject != "" {
        return cl.Subject
    }
    return "guest"
}
