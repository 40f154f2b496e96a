package service

import (
    "context"
    "sort"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/model"
    "github.com/bandoneon/soundbank/internal/queue"
    "github.com/bandoneon/soundbank/internal/repository"
)

type fakeSounds struct {
    byID      map[uint64]*model.Sound
    nextID    uint64
    createErr error
    lastQuery repository.SoundQuery
    filters   model.Filters
}

var _ repository.SoundRepository = (*fakeSounds)(nil)

func (f *fakeSounds) ListPage(_ context.Context, q repository.SoundQuery) (model.SoundPage, error) {
    f.lastQuery = q
    return model.NewSoundPage(nil, q.Limit), nil
}
func (f *fakeSounds) Filters(context.Context) (model.Filters, error) { return f.filters, nil }
func (f *fakeSounds) Create(_ context.Context, s *model.Sound) error {
    if f.createErr != nil {
        return f.createErr
    }
    if f.byID == nil {
        f.byID = map[uint64]*model.Sound{}
    }
    f.nextID++
    s.ID = f.nextID
    cpy := *s
    f.byID[s.ID] = &cpy
    return nil
}
func (f *fakeSounds) GetByID(_ context.Context, id uint64) (*model.Sound, error) {
    s, ok := f.byID[id]
    if !ok {
        return nil, errs.ErrNotFound
    }
    c := *s
    return &c, nil
}
func (f *fakeSounds) Count(context.Context) (int64, error) { return int64(len(f.byID)), nil }

type fakePacks struct {
    byID      map[uint64]*model.Soundpack
    nextID    uint64
    existsErr error
}

var _ repository.SoundpackRepository = (*fakePacks)(nil)

func (f *fakePacks) Create(_ context.Context, p *model.Soundpack) error {
    if f.byID == nil {
        f.byID = map[uint64]*model.Soundpack{}
    }
    for _, existing := range f.byID {
        if existing.Name == p.Name {
            return errs.ErrAlreadyExists
        }
    }
    f.nextID++
    p.ID = f.nextID
    cpy := *p
    f.byID[p.ID] = &cpy
    return nil
}
func (f *fakePacks) Exists(_ context.Context, id uint64) (bool, error) {
    if f.existsErr != nil {
        return false, f.existsErr
    }
    _, ok := f.byID[id]
    return ok, nil
}
func (f *fakePacks) GetByID(_ context.Context, id uint64) (*model.Soundpack, error) {
    p, ok := f.byID[id]
    if !ok {
        return nil, errs.ErrNotFound
    }
    c := *p
    return &c, nil
}
func (f *fakePacks) List(context.Context) ([]model.Soundpack, error) {
    out := []model.Soundpack{}
    for _, p := range f.byID {
        out = append(out, *p)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
    return out, nil
}
func (f *fakePacks) Count(context.Context) (int64, error) { return int64(len(f.byID)), nil }

type link struct {
    entityID  uint64
    entity    model.EntityType
    hashtagID uint64
}

// fakeHashtags mimics the unique tag key and the composite primary key of
// entity_hashtags.
type fakeHashtags struct {
    ids        map[string]uint64
    links      map[link]bool
    upsertErrs map[string]error
    linkErrs   map[uint64]error
    entityErr  error
    upserts    []string
}

var _ repository.HashtagRepository = (*fakeHashtags)(nil)

func newFakeHashtags() *fakeHashtags {
    return &fakeHashtags{ids: map[string]uint64{}, links: map[link]bool{}, upsertErrs: map[string]error{}, linkErrs: map[uint64]error{}}
}

func (f *fakeHashtags) Upsert(_ context.Context, tag string) (uint64, error) {
    f.upserts = append(f.upserts, tag)
    if err := f.upsertErrs[tag]; err != nil {
        return 0, err
    }
    if id, ok := f.ids[tag]; ok {
        return id, nil
    }
    id := uint64(len(f.ids) + 1)
    f.ids[tag] = id
    return id, nil
}
func (f *fakeHashtags) Link(_ context.Context, entityID uint64, entity model.EntityType, hashtagID uint64) error {
    if err := f.linkErrs[hashtagID]; err != nil {
        return err
    }
    f.links[link{entityID, entity, hashtagID}] = true
    return nil
}
func (f *fakeHashtags) ForEntity(_ context.Context, entityID uint64, entity model.EntityType) ([]model.Hashtag, error) {
    if f.entityErr != nil {
        return nil, f.entityErr
    }
    out := []model.Hashtag{}
    for tag, id := range f.ids {
        if f.links[link{entityID, entity, id}] {
            out = append(out, model.Hashtag{ID: id, Tag: tag})
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
    return out, nil
}
func (f *fakeHashtags) Count(context.Context) (int64, error) { return int64(len(f.ids)), nil }

// tagsOf returns the sorted tag texts linked to an entity.
func (f *fakeHashtags) tagsOf(entityID uint64, entity model.EntityType) []string {
    out := []string{}
    for tag, id := range f.ids {
        if f.links[link{entityID, entity, id}] {
            out = append(out, tag)
        }
    }
    sort.Strings(out)
    return out
}

type fakePublisher struct {
    events []queue.CatalogEvent
    err    error
}

func (f *fakePublisher) Publish(_ context.Context, ev queue.CatalogEvent) error {
    f.events = append(f.events, ev)
    return f.err
}

type fakePurger struct {
    calls int
    err   error
}

func (f *fakePurger) Purge(context.Context) error {
    f.calls++
    return f.err
}

type fakeUsers struct {
    byEmail map[string]*model.User
    getErr  error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
    if f.byEmail == nil {
        f.byEmail = map[string]*model.User{}
    }
    if _, ok := f.byEmail[u.Email]; ok {
        return errs.ErrAlreadyExists
    }
    cpy := *u
    f.byEmail[u.Email] = &cpy
    return nil
}
func (f *fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
    for _, u := range f.byEmail {
        if u.ID == id {
            c := *u
            return &c, nil
        }
    }
    return nil, errs.ErrNotFound
}
func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
    if f.getErr != nil {
        return nil, f.getErr
    }
    u, ok := f.byEmail[email]
    if !ok {
        return nil, errs.ErrNotFound
    }
    c := *u
    return &c, nil
}
