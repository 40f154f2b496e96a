package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/model"
    "github.com/bandoneon/soundbank/internal/repository"
)

// ArticleHandler serves the read-only article endpoints.
type ArticleHandler struct {
    Articles repository.ArticleRepository
    Log      *zap.Logger
}

func NewArticleHandler(a repository.ArticleRepository, log *zap.Logger) *ArticleHandler {
    if a == nil {
        panic("nil article repository passed to NewArticleHandler")
    }
    return &ArticleHandler{Articles: a, Log: log}
}

type articleResp struct {
    ID        uint64    `json:"id"`
    Slug      string    `json:"slug"`
    Title     string    `json:"title"`
    Abstract  *string   `json:"abstract"`
    Author    *string   `json:"author"`
    PDFURL    *string   `json:"pdfUrl"`
    CreatedAt time.Time `json:"createdAt"`
}

func toArticleResp(a model.Article) articleResp {
    return articleResp{
        ID:        a.ID,
        Slug:      a.Slug,
        Title:     a.Title,
        Abstract:  a.Abstract,
        Author:    a.Author,
        PDFURL:    a.PDFURL,
        CreatedAt: a.CreatedAt,
    }
}

// List returns every article, newest first, under "items".
func (h *ArticleHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    list, err := h.Articles.List(ctx)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    out := make([]articleResp, 0, len(list))
    for _, a := range list {
        out = append(out, toArticleResp(a))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetByID handles GET /api/articles/:id.  A non-numeric id is a 400.
func (h *ArticleHandler) GetByID(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return respondError(c, h.Log, errs.Validation("id", "must be a positive integer"))
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    a, err := h.Articles.GetByID(ctx, id)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, toArticleResp(*a))
}

// GetBySlug handles GET /api/articles/slug/:slug.
func (h *ArticleHandler) GetBySlug(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    a, err := h.Articles.GetBySlug(ctx, c.Param("slug"))
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, toArticleResp(*a))
}
