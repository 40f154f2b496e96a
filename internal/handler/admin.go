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

// Catalog is the write side used by AdminHandler.  service.CatalogService
// satisfies it.
type Catalog interface {
    ListSoundpacks(ctx context.Context) ([]model.Soundpack, error)
    CreateSoundpack(ctx context.Context, in service.CreateSoundpackInput) (*model.Soundpack, []string, error)
    UploadSound(ctx context.Context, in service.UploadSoundInput) (*service.UploadResult, error)
    Stats(ctx context.Context) (service.CatalogStats, error)
}

var _ Catalog = (*service.CatalogService)(nil)

// AdminHandler serves the admin catalog endpoints.  The route group only
// checks that a session exists; every handler checks the admin role itself.
type AdminHandler struct {
    Catalog Catalog
    Log     *zap.Logger
}

func NewAdminHandler(cat Catalog, log *zap.Logger) *AdminHandler {
    if cat == nil {
        panic("nil catalog passed to NewAdminHandler")
    }
    return &AdminHandler{Catalog: cat, Log: log}
}

// ----- DTOs -----

type createSoundpackReq struct {
    Name          string  `json:"name" validate:"required,max=255"`
    Description   *string `json:"description"`
    CoverImageURL *string `json:"cover_image_url" validate:"omitempty,url"`
    Tags          string  `json:"tags"`
}

type uploadSoundReq struct {
    Title        string   `json:"title" validate:"required,max=255"`
    Description  *string  `json:"description"`
    SoundpackID  *uint64  `json:"soundpack_id" validate:"omitempty,gt=0"`
    Tags         []string `json:"tags"`
    FilePath     string   `json:"filePath" validate:"required"`
    LosslessPath *string  `json:"losslessPath"`
    Duration     *float64 `json:"duration" validate:"omitempty,gte=0"`
    FileSize     *int64   `json:"fileSize" validate:"omitempty,gte=0"`
    FileFormat   string   `json:"fileFormat"`
}

type soundpackResp struct {
    ID            uint64   `json:"id"`
    Name          string   `json:"name"`
    Description   *string  `json:"description"`
    CoverImageURL *string  `json:"cover_image_url"`
    Tags          []string `json:"tags"`
    TagErrors     []string `json:"tagErrors,omitempty"`
}

type uploadResp struct {
    SoundID   uint64   `json:"sound_id"`
    URL       string   `json:"url"`
    Tags      []string `json:"tags"`
    TagErrors []string `json:"tagErrors,omitempty"`
}

func toSoundpackResp(p model.Soundpack, tagErrors []string) soundpackResp {
    tags := p.Tags
    if tags == nil {
        tags = []string{}
    }
    return soundpackResp{
        ID:            p.ID,
        Name:          p.Name,
        Description:   p.Description,
        CoverImageURL: p.CoverImageURL,
        Tags:          tags,
        TagErrors:     tagErrors,
    }
}

// requireAdmin is the fine-grained check behind the session gate: an
// authenticated non-admin gets the same answer as no session at all.
func requireAdmin(c echo.Context) error {
    cl, ok := middleware.ClaimsFrom(c)
    if !ok {
        return errs.ErrUnauthenticated
    }
    if !cl.IsAdmin() {
        return errs.ErrForbidden
    }
    return nil
}

// ListSoundpacks handles GET /api/admin/soundpacks.
func (h *AdminHandler) ListSoundpacks(c echo.Context) error {
    if err := requireAdmin(c); err != nil {
        return respondError(c, h.Log, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    packs, err := h.Catalog.ListSoundpacks(ctx)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    out := make([]soundpackResp, 0, len(packs))
    for _, p := range packs {
        out = append(out, toSoundpackResp(p, nil))
    }
    return c.JSON(http.StatusOK, echo.Map{"soundpacks": out})
}

// CreateSoundpack handles POST /api/admin/soundpacks.  The soundpack is
// created even when some tags fail; those are listed in tagErrors.
func (h *AdminHandler) CreateSoundpack(c echo.Context) error {
    if err := requireAdmin(c); err != nil {
        return respondError(c, h.Log, err)
    }
    var req createSoundpackReq
    if err := bindAndValidate(c, &req); err != nil {
        return respondError(c, h.Log, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    p, failed, err := h.Catalog.CreateSoundpack(ctx, service.CreateSoundpackInput{
        Name:          req.Name,
        Description:   req.Description,
        CoverImageURL: req.CoverImageURL,
        Tags:          req.Tags,
    })
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusCreated, toSoundpackResp(*p, failed))
}

// UploadSound handles POST /api/admin/upload-sound.  The audio itself is
// already on the CDN; filePath is its URL.
func (h *AdminHandler) UploadSound(c echo.Context) error {
    if err := requireAdmin(c); err != nil {
        return respondError(c, h.Log, err)
    }
    var req uploadSoundReq
    if err := bindAndValidate(c, &req); err != nil {
        return respondError(c, h.Log, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    res, err := h.Catalog.UploadSound(ctx, service.UploadSoundInput{
        Title:       req.Title,
        Description: req.Description,
        FileURL:     req.FilePath,
        LosslessURL: req.LosslessPath,
        FileFormat:  req.FileFormat,
        Duration:    req.Duration,
        FileSize:    req.FileSize,
        SoundpackID: req.SoundpackID,
        Tags:        req.Tags,
    })
    if err != nil {
        return respondError(c, h.Log, err)
    }
    tags := res.Tags
    if tags == nil {
        tags = []string{}
    }
    return c.JSON(http.StatusCreated, uploadResp{
        SoundID:   res.SoundID,
        URL:       res.URL,
        Tags:      tags,
        TagErrors: res.TagErrors,
    })
}

// Dashboard handles GET /admin/dashboard.  Page rendering lives elsewhere;
// this returns the numbers the page shows.
func (h *AdminHandler) Dashboard(c echo.Context) error {
    cl, ok := middleware.ClaimsFrom(c)
    if !ok {
        return respondError(c, h.Log, errs.ErrUnauthenticated)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    st, err := h.Catalog.Stats(ctx)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"stats": st, "user": echo.Map{"id": cl.Subject, "email": cl.Email}})
}
