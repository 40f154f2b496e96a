// Package service holds the application logic between HTTP handlers and the
// repositories: the soundbank catalog (listing, soundpacks, uploads and their
// tag associations) and account authentication.
package service

import (
    "context"
    "errors"
    "strings"
    "time"

    "go.uber.org/zap"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/metrics"
    "github.com/bandoneon/soundbank/internal/model"
    "github.com/bandoneon/soundbank/internal/queue"
    "github.com/bandoneon/soundbank/internal/repository"
    "github.com/bandoneon/soundbank/internal/utils"
)

// CachePurger drops cached public responses after catalog writes.
type CachePurger interface {
    Purge(ctx context.Context) error
}

// SoundLister is the read side used by the public listing handlers.
type SoundLister interface {
    ListSounds(ctx context.Context, q repository.SoundQuery) (model.SoundPage, error)
    Filters(ctx context.Context) (model.Filters, error)
}

// CreateSoundpackInput carries the admin form fields.  Tags is the raw
// comma-separated list as typed.
type CreateSoundpackInput struct {
    Name          string
    Description   *string
    CoverImageURL *string
    Tags          string
}

// UploadSoundInput describes a sound whose audio already lives on the CDN.
type UploadSoundInput struct {
    Title       string
    Description *string
    FileURL     string
    LosslessURL *string
    FileFormat  string // optional; inferred from FileURL when empty
    Duration    *float64
    FileSize    *int64
    SoundpackID *uint64
    Tags        []string
}

// UploadResult is returned for a stored sound.  TagErrors lists the tags
// that could not be linked; the sound exists regardless.
// SoundpackTagsFailed is reported in TagErrors when the soundpack's own
// tags could not be loaded and so were not propagated to the sound.
const SoundpackTagsFailed = "soundpack-tags"

type UploadResult struct {
    SoundID   uint64
    URL       string
    Tags      []string
    TagErrors []string
}

// CatalogStats backs the admin dashboard.
type CatalogStats struct {
    Sounds     int64 `json:"sounds"`
    Soundpacks int64 `json:"soundpacks"`
    Hashtags   int64 `json:"hashtags"`
}

// CatalogService maintains sounds, soundpacks and their hashtag associations.
type CatalogService struct {
    sounds   repository.SoundRepository
    packs    repository.SoundpackRepository
    hashtags repository.HashtagRepository

    pageSize    int
    maxPageSize int

    log     *zap.Logger
    metrics *metrics.Metrics
    events  EventPublisher
    cache   CachePurger
    now     func() time.Time
}

var _ SoundLister = (*CatalogService)(nil)

func NewCatalogService(sounds repository.SoundRepository, packs repository.SoundpackRepository, hashtags repository.HashtagRepository, log *zap.Logger) *CatalogService {
    if log == nil {
        log = zap.NewNop()
    }
    return &CatalogService{
        sounds:      sounds,
        packs:       packs,
        hashtags:    hashtags,
        pageSize:    repository.DefaultPageSize,
        maxPageSize: 100,
        log:         log.Named("catalog"),
        now:         func() time.Time { return time.Now().UTC() },
    }
}

// WithPaging sets the default and maximum listing page sizes.
func (s *CatalogService) WithPaging(def, max int) *CatalogService {
    if def > 0 {
        s.pageSize = def
    }
    if max >= s.pageSize {
        s.maxPageSize = max
    }
    return s
}

func (s *CatalogService) WithMetrics(m *metrics.Metrics) *CatalogService { s.metrics = m; return s }

func (s *CatalogService) WithEvents(p EventPublisher) *CatalogService { s.events = p; return s }

func (s *CatalogService) WithCachePurger(c CachePurger) *CatalogService { s.cache = c; return s }

// ListSounds returns one page of sounds, newest first.  The limit falls back
// to the default page size and is capped at the maximum; tag filters are
// normalized so that "Ambient " and "ambient" select the same sounds.
func (s *CatalogService) ListSounds(ctx context.Context, q repository.SoundQuery) (model.SoundPage, error) {
    if q.Limit <= 0 {
        q.Limit = s.pageSize
    }
    if q.Limit > s.maxPageSize {
        q.Limit = s.maxPageSize
    }
    q.Tags = utils.MergeTags(utils.NormalizeTags(q.Tags))
    q.Soundpack = strings.TrimSpace(q.Soundpack)
    return s.sounds.ListPage(ctx, q)
}

// Filters returns the tags and soundpack names in active use.
func (s *CatalogService) Filters(ctx context.Context) (model.Filters, error) {
    return s.sounds.Filters(ctx)
}

// ListSoundpacks returns every soundpack with its tags.
func (s *CatalogService) ListSoundpacks(ctx context.Context) ([]model.Soundpack, error) {
    return s.packs.List(ctx)
}

// Stats counts catalog rows for the admin dashboard.
func (s *CatalogService) Stats(ctx context.Context) (CatalogStats, error) {
    var (
        st  CatalogStats
        err error
    )
    if st.Sounds, err = s.sounds.Count(ctx); err != nil {
        return CatalogStats{}, err
    }
    if st.Soundpacks, err = s.packs.Count(ctx); err != nil {
        return CatalogStats{}, err
    }
    if st.Hashtags, err = s.hashtags.Count(ctx); err != nil {
        return CatalogStats{}, err
    }
    return st, nil
}

// CreateSoundpack stores a soundpack and links its tags.  The soundpack row
// is the durable side effect: once it is inserted the call succeeds, and
// tags that fail to link are returned as the second value.
func (s *CatalogService) CreateSoundpack(ctx context.Context, in CreateSoundpackInput) (*model.Soundpack, []string, error) {
    name := strings.TrimSpace(in.Name)
    if name == "" {
        return nil, nil, errs.Validation("name", "is required")
    }
    p := &model.Soundpack{
        Name:          name,
        Description:   trimmedOrNil(in.Description),
        CoverImageURL: trimmedOrNil(in.CoverImageURL),
    }
    if err := s.packs.Create(ctx, p); err != nil {
        if errors.Is(err, errs.ErrAlreadyExists) {
            return nil, nil, errs.Conflict("name", "a soundpack with this name already exists")
        }
        return nil, nil, err
    }
    s.metrics.CatalogWrite(string(model.EntitySoundpack))

    tags := utils.MergeTags(utils.ProcessTagList(in.Tags))
    linked, failed := s.linkTags(ctx, p.ID, model.EntitySoundpack, tags, nil)
    p.Tags = linked

    s.afterWrite(ctx, queue.CatalogEvent{
        Type:      queue.EventSoundpackCreated,
        EntityID:  p.ID,
        Name:      p.Name,
        Tags:      p.Tags,
        TagErrors: failed,
    })
    return p, failed, nil
}

// UploadSound stores a sound and links its effective tag set: the explicit
// tags plus every tag of its soundpack, deduplicated by text.  Soundpack
// tags reuse their existing hashtag ids.
func (s *CatalogService) UploadSound(ctx context.Context, in UploadSoundInput) (*UploadResult, error) {
    snd, err := s.validateUpload(in)
    if err != nil {
        return nil, err
    }
    if snd.SoundpackID != nil {
        ok, err := s.packs.Exists(ctx, *snd.SoundpackID)
        if err != nil {
            return nil, err
        }
        if !ok {
            return nil, errs.Validation("soundpack_id", "does not reference an existing soundpack")
        }
    }

    if err := s.sounds.Create(ctx, snd); err != nil {
        return nil, err
    }
    s.metrics.CatalogWrite(string(model.EntitySound))

    known := map[string]uint64{}
    var packTags []string
    packFailed := false
    if snd.SoundpackID != nil {
        hs, err := s.hashtags.ForEntity(ctx, *snd.SoundpackID, model.EntitySoundpack)
        if err != nil {
            s.log.Warn("load soundpack tags failed",
                zap.Uint64("soundpack_id", *snd.SoundpackID),
                zap.Uint64("sound_id", snd.ID),
                zap.Error(err))
            s.metrics.TagFailed(string(model.EntitySound))
            packFailed = true
        }
        for _, h := range hs {
            known[h.Tag] = h.ID
            packTags = append(packTags, h.Tag)
        }
    }

    effective := utils.MergeTags(utils.NormalizeTags(in.Tags), packTags)
    linked, failed := s.linkTags(ctx, snd.ID, model.EntitySound, effective, known)
    if packFailed {
        failed = append(failed, SoundpackTagsFailed)
    }

    s.afterWrite(ctx, queue.CatalogEvent{
        Type:      queue.EventSoundUploaded,
        EntityID:  snd.ID,
        Name:      snd.Title,
        Tags:      linked,
        TagErrors: failed,
    })
    return &UploadResult{SoundID: snd.ID, URL: snd.FileURL, Tags: linked, TagErrors: failed}, nil
}

func (s *CatalogService) validateUpload(in UploadSoundInput) (*model.Sound, error) {
    title := strings.TrimSpace(in.Title)
    if title == "" {
        return nil, errs.Validation("title", "is required")
    }
    fileURL := strings.TrimSpace(in.FileURL)
    if fileURL == "" {
        return nil, errs.Validation("filePath", "is required")
    }
    if in.Duration != nil && *in.Duration < 0 {
        return nil, errs.Validation("duration", "must not be negative")
    }
    if in.FileSize != nil && *in.FileSize < 0 {
        return nil, errs.Validation("fileSize", "must not be negative")
    }

    snd := &model.Sound{
        Title:       title,
        Description: trimmedOrNil(in.Description),
        FileURL:     fileURL,
        LosslessURL: trimmedOrNil(in.LosslessURL),
        Duration:    in.Duration,
        FileSize:    in.FileSize,
        SoundpackID: in.SoundpackID,
    }
    if raw := strings.TrimSpace(in.FileFormat); raw != "" {
        f, ok := model.NormalizeFormat(raw)
        if !ok {
            return nil, errs.Validation("fileFormat", "must be one of mp3, wav, flac, ogg, aac, aiff")
        }
        snd.FileFormat = &f
    } else if f, ok := model.FormatFromURL(fileURL); ok {
        snd.FileFormat = &f
    }
    return snd, nil
}

// linkTags upserts and links each tag in order.  Ids found in known skip the
// upsert.  A failing tag is logged and reported; the remaining tags are still
// processed.
func (s *CatalogService) linkTags(ctx context.Context, entityID uint64, entity model.EntityType, tags []string, known map[string]uint64) (linked, failed []string) {
    linked = []string{}
    for _, tag := range tags {
        if err := s.linkTag(ctx, entityID, entity, tag, known); err != nil {
            s.log.Warn("tag link failed",
                zap.String("tag", tag),
                zap.String("entity", string(entity)),
                zap.Uint64("entity_id", entityID),
                zap.Error(err))
            s.metrics.TagFailed(string(entity))
            failed = append(failed, tag)
            continue
        }
        linked = append(linked, tag)
    }
    return linked, failed
}

func (s *CatalogService) linkTag(ctx context.Context, entityID uint64, entity model.EntityType, tag string, known map[string]uint64) error {
    id, ok := known[tag]
    if !ok {
        var err error
        if id, err = s.hashtags.Upsert(ctx, tag); err != nil {
            return &errs.TagError{Tag: tag, Err: err}
        }
    }
    if err := s.hashtags.Link(ctx, entityID, entity, id); err != nil {
        return &errs.TagError{Tag: tag, Err: err}
    }
    return nil
}

// afterWrite publishes ev and purges the response cache.  Neither failure
// affects the caller.
func (s *CatalogService) afterWrite(ctx context.Context, ev queue.CatalogEvent) {
    ev.OccurredAt = s.now()
    if s.events != nil {
        err := s.events.Publish(ctx, ev)
        s.metrics.EventPublished(err)
        if err != nil {
            s.log.Warn("publish catalog event failed", zap.String("type", ev.Type), zap.Uint64("entity_id", ev.EntityID), zap.Error(err))
        }
    }
    if s.cache != nil {
        if err := s.cache.Purge(ctx); err != nil {
            s.log.Warn("purge response cache failed", zap.Error(err))
        }
    }
}

func trimmedOrNil(p *string) *string {
    if p == nil {
        return nil
    }
    v := strings.TrimSpace(*p)
    if v == "" {
        return nil
    }
    return &v
}
