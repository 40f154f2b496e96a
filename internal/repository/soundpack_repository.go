package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/model"
)

// SoundpackRepo provides access to soundpacks.
type SoundpackRepo struct {
    db *sql.DB
}

func NewSoundpackRepo(db *sql.DB) *SoundpackRepo { return &SoundpackRepo{db: db} }

const soundpackSelect = `SELECT
        sp.id,
        sp.name,
        sp.description,
        sp.cover_image_url,
        sp.created_at,
        GROUP_CONCAT(DISTINCT h.tag ORDER BY h.tag SEPARATOR ',') AS tags
    FROM soundpacks sp
    LEFT JOIN entity_hashtags eh ON eh.entity_id = sp.id AND eh.entity_type = 'soundpack'
    LEFT JOIN hashtags h        ON h.id = eh.hashtag_id`

// Create inserts the soundpack row.  Name uniqueness is enforced by the
// uq_soundpacks_name key; a collision maps to errs.ErrAlreadyExists and no
// row is written.
func (r *SoundpackRepo) Create(ctx context.Context, p *model.Soundpack) error {
    const q = `INSERT INTO soundpacks (name, description, cover_image_url, created_at) VALUES (?, ?, ?, ?)`
    if p.CreatedAt.IsZero() {
        p.CreatedAt = nowUTC()
    }
    res, err := r.db.ExecContext(ctx, q, p.Name, nullable(p.Description), nullable(p.CoverImageURL), p.CreatedAt)
    if err != nil {
        if isDuplicateKey(err) {
            return errs.ErrAlreadyExists
        }
        return errs.Storage("soundpacks.create", err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return errs.Storage("soundpacks.create", err)
    }
    p.ID = uint64(id)
    return nil
}

// Exists reports whether a soundpack with the given id exists.
func (r *SoundpackRepo) Exists(ctx context.Context, id uint64) (bool, error) {
    var one int
    err := r.db.QueryRowContext(ctx, "SELECT 1 FROM soundpacks WHERE id = ?", id).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, errs.Storage("soundpacks.exists", err)
    }
    return true, nil
}

// GetByID returns a soundpack with its tags.
func (r *SoundpackRepo) GetByID(ctx context.Context, id uint64) (*model.Soundpack, error) {
    row := r.db.QueryRowContext(ctx, soundpackSelect+"\n\tWHERE sp.id = ?\n\tGROUP BY sp.id", id)
    p, err := scanSoundpack(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, errs.ErrNotFound
        }
        return nil, errs.Storage("soundpacks.get", err)
    }
    return &p, nil
}

// List returns every soundpack ordered by name.
func (r *SoundpackRepo) List(ctx context.Context) ([]model.Soundpack, error) {
    rows, err := r.db.QueryContext(ctx, soundpackSelect+"\n\tGROUP BY sp.id\n\tORDER BY sp.name")
    if err != nil {
        return nil, errs.Storage("soundpacks.list", err)
    }
    defer rows.Close()

    out := []model.Soundpack{}
    for rows.Next() {
        p, err := scanSoundpack(rows)
        if err != nil {
            return nil, errs.Storage("soundpacks.list", err)
        }
        out = append(out, p)
    }
    if err := rows.Err(); err != nil {
        return nil, errs.Storage("soundpacks.list", err)
    }
    return out, nil
}

func (r *SoundpackRepo) Count(ctx context.Context) (int64, error) {
    var n int64
    if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM soundpacks").Scan(&n); err != nil {
        return 0, errs.Storage("soundpacks.count", err)
    }
    return n, nil
}

func scanSoundpack(sc rowScanner) (model.Soundpack, error) {
    var (
        p     model.Soundpack
        desc  sql.NullString
        cover sql.NullString
        tags  sql.NullString
    )
    if err := sc.Scan(&p.ID, &p.Name, &desc, &cover, &p.CreatedAt, &tags); err != nil {
        return model.Soundpack{}, err
    }
    p.Description = strPtr(desc)
    p.CoverImageURL = strPtr(cover)
    p.Tags = splitTags(tags)
    return p, nil
}
