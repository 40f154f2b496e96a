package handler

import (
    "context"
    "time"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/model"
    "github.com/bandoneon/soundbank/internal/repository"
    "github.com/bandoneon/soundbank/internal/service"
)

type fakeLister struct {
    got     repository.SoundQuery
    page    model.SoundPage
    filters model.Filters
    err     error
}

func (f *fakeLister) ListSounds(_ context.Context, q repository.SoundQuery) (model.SoundPage, error) {
    f.got = q
    return f.page, f.err
}

func (f *fakeLister) Filters(context.Context) (model.Filters, error) { return f.filters, f.err }

type fakeArticles struct {
    list []model.Article
}

func (f *fakeArticles) List(context.Context) ([]model.Article, error) { return f.list, nil }

func (f *fakeArticles) GetByID(_ context.Context, id uint64) (*model.Article, error) {
    for i := range f.list {
        if f.list[i].ID == id {
            return &f.list[i], nil
        }
    }
    return nil, errs.ErrNotFound
}

func (f *fakeArticles) GetBySlug(_ context.Context, slug string) (*model.Article, error) {
    for i := range f.list {
        if f.list[i].Slug == slug {
            return &f.list[i], nil
        }
    }
    return nil, errs.ErrNotFound
}

type fakeAuth struct {
    users map[string]*model.User // by email
    pass  map[string]string
}

func newFakeAuth() *fakeAuth {
    return &fakeAuth{users: map[string]*model.User{}, pass: map[string]string{}}
}

func (f *fakeAuth) Register(_ context.Context, email, password string) (*model.User, error) {
    if _, ok := f.users[email]; ok {
        return nil, errs.Conflict("email", "is already registered")
    }
    u := &model.User{ID: "u-" + email, Email: email, Role: model.RoleUser, CreatedAt: time.Unix(1700000000, 0).UTC()}
    f.users[email] = u
    f.pass[email] = password
    return u, nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*service.Session, error) {
    u, ok := f.users[email]
    if !ok || f.pass[email] != password {
        return nil, errs.ErrInvalidCredentials
    }
    return &service.Session{Token: "tok-" + u.ID, ExpiresAt: time.Now().Add(24 * time.Hour), User: u}, nil
}

func (f *fakeAuth) Me(_ context.Context, c *model.Claims) (*model.User, error) {
    for _, u := range f.users {
        if u.ID == c.Subject {
            return u, nil
        }
    }
    return nil, errs.ErrUnauthenticated
}

type fakeCatalog struct {
    packs     []model.Soundpack
    created   *service.CreateSoundpackInput
    uploaded  *service.UploadSoundInput
    tagErrors []string
    err       error
}

func (f *fakeCatalog) ListSoundpacks(context.Context) ([]model.Soundpack, error) {
    return f.packs, f.err
}

func (f *fakeCatalog) CreateSoundpack(_ context.Context, in service.CreateSoundpackInput) (*model.Soundpack, []string, error) {
    f.created = &in
    if f.err != nil {
        return nil, nil, f.err
    }
    return &model.Soundpack{ID: 7, Name: in.Name, Description: in.Description, Tags: []string{"ambient"}}, f.tagErrors, nil
}

func (f *fakeCatalog) UploadSound(_ context.Context, in service.UploadSoundInput) (*service.UploadResult, error) {
    f.uploaded = &in
    if f.err != nil {
        return nil, f.err
    }
    return &service.UploadResult{SoundID: 42, URL: in.FileURL, Tags: in.Tags, TagErrors: f.tagErrors}, nil
}

func (f *fakeCatalog) Stats(context.Context) (service.CatalogStats, error) {
    return service.CatalogStats{Sounds: 3, Soundpacks: 1, Hashtags: 5}, f.err
}
