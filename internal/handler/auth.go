package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/middleware"
    "github.com/bandoneon/soundbank/internal/model"
    "github.com/bandoneon/soundbank/internal/service"
)

// Authenticator is the account side used by AuthHandler.  service.AuthService
// satisfies it.
type Authenticator interface {
    Register(ctx context.Context, email, password string) (*model.User, error)
    Login(ctx context.Context, email, password string) (*service.Session, error)
    Me(ctx context.Context, c *model.Claims) (*model.User, error)
}

// CookieSettings describes the session cookie.
type CookieSettings struct {
    Name   string
    TTL    time.Duration
    Secure bool
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Auth   Authenticator
    Cookie CookieSettings
    Log    *zap.Logger
}

func NewAuthHandler(a Authenticator, cookie CookieSettings, log *zap.Logger) *AuthHandler {
    if cookie.Name == "" {
        cookie.Name = "auth_token"
    }
    if cookie.TTL <= 0 {
        cookie.TTL = 24 * time.Hour
    }
    return &AuthHandler{Auth: a, Cookie: cookie, Log: log}
}

// ----- DTOs -----

type registerReq struct {
    Email    string `json:"email" validate:"required,email,max=255"`
    Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginReq struct {
    Email    string `json:"email" validate:"required"`
    Password string `json:"password" validate:"required"`
}

type userResp struct {
    ID        string    `json:"id"`
    Email     string    `json:"email"`
    Role      string    `json:"role"`
    CreatedAt time.Time `json:"createdAt,omitempty"`
}

func toUserResp(u *model.User) userResp {
    return userResp{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

// Register creates a regular account.  It does not log the caller in.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := bindAndValidate(c, &req); err != nil {
        return respondError(c, h.Log, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Auth.Register(ctx, req.Email, req.Password)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"user": toUserResp(u)})
}

// Login checks credentials and sets the session cookie.  Any failure reads
// "invalid credentials" without saying which part was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    sess, err := h.Auth.Login(ctx, req.Email, req.Password)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    c.SetCookie(h.sessionCookie(sess.Token, sess.ExpiresAt))
    return c.JSON(http.StatusOK, echo.Map{
        "user":      toUserResp(sess.User),
        "expiresAt": sess.ExpiresAt,
    })
}

// Logout clears the session cookie.  Tokens are stateless, so there is
// nothing to revoke server side.
func (h *AuthHandler) Logout(c echo.Context) error {
    ck := h.sessionCookie("", time.Unix(0, 0))
    ck.MaxAge = -1
    c.SetCookie(ck)
    return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the account behind the session.  The route sits behind
// SessionAuth.
func (h *AuthHandler) Me(c echo.Context) error {
    claims, ok := middleware.ClaimsFrom(c)
    if !ok {
        return respondError(c, h.Log, errs.ErrUnauthenticated)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Auth.Me(ctx, claims)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"user": toUserResp(u)})
}

func (h *AuthHandler) sessionCookie(value string, exp time.Time) *http.Cookie {
    return &http.Cookie{
        Name:     h.Cookie.Name,
        Value:    value,
        Path:     "/",
        Expires:  exp,
        MaxAge:   int(h.Cookie.TTL / time.Second),
        HttpOnly: true,
        Secure:   h.Cookie.Secure,
        SameSite: http.SameSiteStrictMode,
    }
}
