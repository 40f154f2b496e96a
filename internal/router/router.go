package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/bandoneon/soundbank/internal/handler"
    "github.com/bandoneon/soundbank/internal/metrics"
    "github.com/bandoneon/soundbank/internal/middleware"
    "github.com/bandoneon/soundbank/internal/model"
)

// RegisterRoutes registers the operational endpoints: the health check and
// the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, m *metrics.Metrics) {
    e.GET("/healthz", handler.Health(db))
    e.GET("/metrics", echo.WrapHandler(m.Handler()))
}

// RegisterPublic registers the unauthenticated catalog endpoints.  All of
// them go through the response cache; a nil cache leaves them uncached.
func RegisterPublic(e *echo.Echo, s *handler.SoundsHandler, a *handler.ArticleHandler, cache *middleware.ResponseCache) {
    g := e.Group("/api")
    if cache != nil {
        g.Use(cache.Middleware())
    }
    g.GET("/sounds", s.List)
    g.GET("/filters", s.Filters)
    g.GET("/articles", a.List)
    g.GET("/articles/:id", a.GetByID)
    g.GET("/articles/slug/:slug", a.GetBySlug)
}

// RegisterAuth registers account routes under /api/auth.  Only login is
// rate limited; /me needs a session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens middleware.TokenVerifier, loginLimiter echo.MiddlewareFunc) {
    g := e.Group("/api/auth")
    g.POST("/register", a.Register)
    if loginLimiter != nil {
        g.POST("/login", a.Login, loginLimiter)
    } else {
        g.POST("/login", a.Login)
    }
    g.POST("/logout", a.Logout)
    e.DELETE("/api/auth", a.Logout)
    g.GET("/me", a.Me, middleware.SessionAuth(tokens, a.Cookie.Name, middleware.DenyJSON))
}

// RegisterAdmin registers the admin API and the admin page.  The API group
// only requires a session and answers 401 JSON; each handler checks the
// admin role itself.  The page group redirects home for a missing session
// or a non-admin role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, tokens middleware.TokenVerifier, cookieName string) {
    api := e.Group("/api/admin", middleware.SessionAuth(tokens, cookieName, middleware.DenyJSON))
    api.GET("/soundpacks", h.ListSoundpacks)
    api.POST("/soundpacks", h.CreateSoundpack)
    api.POST("/upload-sound", h.UploadSound)

    pages := e.Group("/admin",
        middleware.SessionAuth(tokens, cookieName, middleware.DenyRedirect("/")),
        middleware.RequireRole(middleware.DenyRedirect("/"), model.RoleAdmin),
    )
    pages.GET("/dashboard", h.Dashboard)
}
