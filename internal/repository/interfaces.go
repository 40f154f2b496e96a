package repository

import (
    "context"

    "github.com/bandoneon/soundbank/internal/model"
)

// SoundRepository reads and writes sounds.
type SoundRepository interface {
    ListPage(ctx context.Context, q SoundQuery) (model.SoundPage, error)
    Filters(ctx context.Context) (model.Filters, error)
    Create(ctx context.Context, s *model.Sound) error
    GetByID(ctx context.Context, id uint64) (*model.Sound, error)
    Count(ctx context.Context) (int64, error)
}

// SoundpackRepository reads and writes soundpacks.
type SoundpackRepository interface {
    // Create inserts p and sets p.ID. A taken name yields errs.ErrAlreadyExists.
    Create(ctx context.Context, p *model.Soundpack) error
    // Exists reports whether a soundpack with id is stored.
    Exists(ctx context.Context, id uint64) (bool, error)
    GetByID(ctx context.Context, id uint64) (*model.Soundpack, error)
    List(ctx context.Context) ([]model.Soundpack, error)
    Count(ctx context.Context) (int64, error)
}

// HashtagRepository maintains the global tag table and its associations.
type HashtagRepository interface {
    // Upsert returns the id of tag, inserting it when missing.
    Upsert(ctx context.Context, tag string) (uint64, error)
    // Link associates an entity with a hashtag. Linking an existing pair is a no-op.
    Link(ctx context.Context, entityID uint64, entity model.EntityType, hashtagID uint64) error
    // ForEntity returns the hashtags linked to an entity, ordered by tag.
    ForEntity(ctx context.Context, entityID uint64, entity model.EntityType) ([]model.Hashtag, error)
    Count(ctx context.Context) (int64, error)
}

// UserRepository provides access to accounts.
type UserRepository interface {
    Create(ctx context.Context, u *model.User) error
    GetByID(ctx context.Context, id string) (*model.User, error)
    GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// ArticleRepository provides read access to published articles.
type ArticleRepository interface {
    List(ctx context.Context) ([]model.Article, error)
    GetByID(ctx context.Context, id uint64) (*model.Article, error)
    GetBySlug(ctx context.Context, slug string) (*model.Article, error)
}

var (
    _ SoundRepository     = (*SoundRepo)(nil)
    _ SoundpackRepository = (*SoundpackRepo)(nil)
    _ HashtagRepository   = (*HashtagRepo)(nil)
    _ UserRepository      = (*UserRepo)(nil)
    _ ArticleRepository   = (*ArticleRepo)(nil)
)
