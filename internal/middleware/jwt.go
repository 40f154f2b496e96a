package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/bandoneon/soundbank/internal/model" // Claims attached to the request context
)

// TokenVerifier checks a raw session token.  utils.TokenService satisfies it.
type TokenVerifier interface {
    Verify(raw string) (*model.Claims, bool)
}

// DenyFunc writes the response for a rejected request.
type DenyFunc func(c echo.Context) error

// DenyJSON answers 401 with a JSON body.  It is used for API routes and does
// not say why the session was rejected.
func DenyJSON(c echo.Context) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

// DenyRedirect sends page requests to target instead of returning an error body.
func DenyRedirect(target string) DenyFunc {
    return func(c echo.Context) error {
        return c.Redirect(http.StatusFound, target)
    }
}

// SessionAuth returns an Echo middleware that reads the session token from
// the cookie named cookieName (falling back to an "Authorization: Bearer"
// header), verifies it and stores the claims in the request context under
// "claims", "user_id" and "role".  Missing, malformed, badly signed and
// expired tokens are all handed to deny.  It checks identity only; role
// checks belong to RequireRole and the handlers.
func SessionAuth(tokens TokenVerifier, cookieName string, deny DenyFunc) echo.MiddlewareFunc {
    if deny == nil {
        deny = DenyJSON
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := TokenFromRequest(c, cookieName)
            claims, ok := tokens.Verify(raw)
            if !ok {
                return deny(c)
            }
            setClaims(c, claims)
            return next(c)
        }
    }
}

// TokenFromRequest returns the session token carried by the request, or "".
func TokenFromRequest(c echo.Context, cookieName string) string {
    if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
        return ck.Value
    }
    auth := c.Request().Header.Get(echo.HeaderAuthorization)
    if strings.HasPrefix(auth, "Bearer ") {
        return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
    }
    return ""
}
