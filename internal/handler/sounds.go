package handler

import (
    "context"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/model"
    "github.com/bandoneon/soundbank/internal/repository"
    "github.com/bandoneon/soundbank/internal/service"
)

// SoundsHandler serves the public soundbank listing and its filter values.
type SoundsHandler struct {
    Sounds service.SoundLister
    Log    *zap.Logger
}

func NewSoundsHandler(s service.SoundLister, log *zap.Logger) *SoundsHandler {
    if s == nil {
        panic("nil sound lister passed to NewSoundsHandler")
    }
    return &SoundsHandler{Sounds: s, Log: log}
}

// soundResp is the external sound shape.  Ids are strings and absent values
// are null.
type soundResp struct {
    ID                   string    `json:"id"`
    Title                string    `json:"title"`
    Description          *string   `json:"description"`
    FileURL              string    `json:"fileUrl"`
    LosslessURL          *string   `json:"losslessUrl"`
    FileFormat           *string   `json:"fileFormat"`
    Duration             *float64  `json:"duration"`
    FileSize             *int64    `json:"fileSize"`
    CreatedAt            time.Time `json:"createdAt"`
    SoundpackName        *string   `json:"soundpackName"`
    SoundpackDescription *string   `json:"soundpackDescription"`
    Tags                 []string  `json:"tags"`
}

type soundPageResp struct {
    Sounds     []soundResp `json:"sounds"`
    NextCursor *string     `json:"nextCursor"`
    HasMore    bool        `json:"hasMore"`
}

type filtersResp struct {
    Tags       []string `json:"tags"`
    Soundpacks []string `json:"soundpacks"`
}

func toSoundResp(s model.Sound) soundResp {
    tags := s.Tags
    if tags == nil {
        tags = []string{}
    }
    return soundResp{
        ID:                   strconv.FormatUint(s.ID, 10),
        Title:                s.Title,
        Description:          s.Description,
        FileURL:              s.FileURL,
        LosslessURL:          s.LosslessURL,
        FileFormat:           s.FileFormat,
        Duration:             s.Duration,
        FileSize:             s.FileSize,
        CreatedAt:            s.CreatedAt,
        SoundpackName:        s.SoundpackName,
        SoundpackDescription: s.SoundpackDescription,
        Tags:                 tags,
    }
}

// List handles GET /api/sounds?cursor=&limit=&tags=&soundpack=.
// tags may be comma separated, repeated, or both.
func (h *SoundsHandler) List(c echo.Context) error {
    q, err := parseSoundQuery(c)
    if err != nil {
        return respondError(c, h.Log, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    page, err := h.Sounds.ListSounds(ctx, q)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    out := soundPageResp{
        Sounds:     make([]soundResp, 0, len(page.Sounds)),
        NextCursor: page.NextCursor,
        HasMore:    page.HasMore,
    }
    for _, s := range page.Sounds {
        out.Sounds = append(out.Sounds, toSoundResp(s))
    }
    return c.JSON(http.StatusOK, out)
}

// Filters handles GET /api/filters.
func (h *SoundsHandler) Filters(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    f, err := h.Sounds.Filters(ctx)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    out := filtersResp{Tags: f.Tags, Soundpacks: f.Soundpacks}
    if out.Tags == nil {
        out.Tags = []string{}
    }
    if out.Soundpacks == nil {
        out.Soundpacks = []string{}
    }
    return c.JSON(http.StatusOK, out)
}

func parseSoundQuery(c echo.Context) (repository.SoundQuery, error) {
    var q repository.SoundQuery
    if raw := strings.TrimSpace(c.QueryParam("cursor")); raw != "" {
        id, err := strconv.ParseUint(raw, 10, 64)
        if err != nil || id == 0 {
            return q, errs.Validation("cursor", "must be a positive integer")
        }
        q.Cursor = &id
    }
    if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
        n, err := strconv.Atoi(raw)
        if err != nil || n < 1 {
            return q, errs.Validation("limit", "must be a positive integer")
        }
        q.Limit = n
    }
    for _, v := range c.QueryParams()["tags"] {
        for _, t := range strings.Split(v, ",") {
            if t = strings.TrimSpace(t); t != "" {
                q.Tags = append(q.Tags, t)
            }
        }
    }
    q.Soundpack = c.QueryParam("soundpack")
    return q, nil
}
