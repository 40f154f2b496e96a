package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/model"
)

// DefaultPageSize is used when a SoundQuery carries no positive limit.
const DefaultPageSize = 12

// SoundQuery defines the cursor and filters for a sound listing.
type SoundQuery struct {
    Cursor    *uint64  // exclusive upper bound on sounds.id; nil for the first page
    Limit     int      // page size
    Tags      []string // normalized, deduplicated; a sound must carry all of them
    Soundpack string   // exact soundpack name; empty means any
}

// SoundRepo encapsulates queries against sounds and their joined metadata.
type SoundRepo struct {
    db *sql.DB
}

// NewSoundRepo constructs a SoundRepo with the provided DB handle.
func NewSoundRepo(db *sql.DB) *SoundRepo { return &SoundRepo{db: db} }

const soundSelect = `SELECT
        s.id,
        s.title,
        s.description,
        s.file_url,
        s.lossless_url,
        s.file_format,
        s.duration,
        s.file_size,
        s.created_at,
        s.soundpack_id,
        sp.name AS soundpack_name,
        sp.description AS soundpack_description,
        GROUP_CONCAT(DISTINCT h.tag ORDER BY h.tag SEPARATOR ',') AS tags
    FROM sounds s
    LEFT JOIN soundpacks sp     ON sp.id = s.soundpack_id
    LEFT JOIN entity_hashtags eh ON eh.entity_id = s.id AND eh.entity_type = 'sound'
    LEFT JOIN hashtags h        ON h.id = eh.hashtag_id`

// List returns up to q.Limit sounds ordered by id descending, newest first.
// Tag and soundpack filters are evaluated in SQL so that pages are full
// pages of matching sounds.
func (r *SoundRepo) List(ctx context.Context, q SoundQuery) ([]model.Sound, error) {
    if q.Limit <= 0 {
        q.Limit = DefaultPageSize
    }
    where := []string{}
    args := []any{}

    if q.Cursor != nil {
        where = append(where, "s.id < ?")
        args = append(args, *q.Cursor)
    }
    if q.Soundpack != "" {
        where = append(where, "sp.name = ?")
        args = append(args, q.Soundpack)
    }
    if len(q.Tags) > 0 {
        ph := strings.TrimSuffix(strings.Repeat("?,", len(q.Tags)), ",")
        where = append(where, `s.id IN (
            SELECT eh2.entity_id
            FROM entity_hashtags eh2
            JOIN hashtags h2 ON h2.id = eh2.hashtag_id
            WHERE eh2.entity_type = 'sound' AND h2.tag IN (`+ph+`)
            GROUP BY eh2.entity_id
            HAVING COUNT(DISTINCT h2.tag) = ?)`)
        for _, t := range q.Tags {
            args = append(args, t)
        }
        args = append(args, len(q.Tags))
    }

    query := soundSelect
    if len(where) > 0 {
        query += "\n\tWHERE " + strings.Join(where, " AND ")
    }
    query += "\n\tGROUP BY s.id, sp.id\n\tORDER BY s.id DESC\n\tLIMIT ?"
    args = append(args, q.Limit)

    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, errs.Storage("sounds.list", err)
    }
    defer rows.Close()

    out := make([]model.Sound, 0, q.Limit)
    for rows.Next() {
        s, err := scanSound(rows)
        if err != nil {
            return nil, errs.Storage("sounds.list", err)
        }
        out = append(out, s)
    }
    if err := rows.Err(); err != nil {
        return nil, errs.Storage("sounds.list", err)
    }
    return out, nil
}

// ListPage runs List and derives the next cursor.  An empty result is a
// normal terminal page, not an error.
func (r *SoundRepo) ListPage(ctx context.Context, q SoundQuery) (model.SoundPage, error) {
    if q.Limit <= 0 {
        q.Limit = DefaultPageSize
    }
    rows, err := r.List(ctx, q)
    if err != nil {
        return model.SoundPage{}, err
    }
    return model.NewSoundPage(rows, q.Limit), nil
}

// GetByID fetches a single sound with its soundpack and tags.
func (r *SoundRepo) GetByID(ctx context.Context, id uint64) (*model.Sound, error) {
    query := soundSelect + "\n\tWHERE s.id = ?\n\tGROUP BY s.id, sp.id"
    row := r.db.QueryRowContext(ctx, query, id)
    s, err := scanSound(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, errs.ErrNotFound
        }
        return nil, errs.Storage("sounds.get", err)
    }
    return &s, nil
}

// Create inserts a sound row and sets s.ID.  Tags are linked separately.
func (r *SoundRepo) Create(ctx context.Context, s *model.Sound) error {
    const q = `INSERT INTO sounds
        (title, description, file_url, lossless_url, file_format, duration, file_size, soundpack_id, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
    if s.CreatedAt.IsZero() {
        s.CreatedAt = nowUTC()
    }
    res, err := r.db.ExecContext(ctx, q,
        s.Title,
        nullable(s.Description),
        s.FileURL,
        nullable(s.LosslessURL),
        nullable(s.FileFormat),
        nullable(s.Duration),
        nullable(s.FileSize),
        nullable(s.SoundpackID),
        s.CreatedAt,
    )
    if err != nil {
        return errs.Storage("sounds.create", err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return errs.Storage("sounds.create", err)
    }
    s.ID = uint64(id)
    return nil
}

// Count returns the number of sounds.
func (r *SoundRepo) Count(ctx context.Context) (int64, error) {
    var n int64
    if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sounds").Scan(&n); err != nil {
        return 0, errs.Storage("sounds.count", err)
    }
    return n, nil
}

// Filters returns the tags linked to at least one sound and the names of
// soundpacks that contain at least one sound, both sorted.
func (r *SoundRepo) Filters(ctx context.Context) (model.Filters, error) {
    const tagsQ = `SELECT DISTINCT h.tag
        FROM hashtags h
        JOIN entity_hashtags eh ON eh.hashtag_id = h.id
        WHERE eh.entity_type = 'sound'
        ORDER BY h.tag`
    const packsQ = `SELECT DISTINCT sp.name
        FROM soundpacks sp
        JOIN sounds s ON s.soundpack_id = sp.id
        ORDER BY sp.name`

    tags, err := r.column(ctx, tagsQ)
    if err != nil {
        return model.Filters{}, errs.Storage("sounds.filters", err)
    }
    packs, err := r.column(ctx, packsQ)
    if err != nil {
        return model.Filters{}, errs.Storage("sounds.filters", err)
    }
    return model.Filters{Tags: tags, Soundpacks: packs}, nil
}

func (r *SoundRepo) column(ctx context.Context, q string) ([]string, error) {
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []string{}
    for rows.Next() {
        var v string
        if err := rows.Scan(&v); err != nil {
            return nil, err
        }
        out = append(out, v)
    }
    return out, rows.Err()
}

type rowScanner interface {
    Scan(dest ...any) error
}

func scanSound(sc rowScanner) (model.Sound, error) {
    var (
        s           model.Sound
        description sql.NullString
        lossless    sql.NullString
        format      sql.NullString
        duration    sql.NullFloat64
        size        sql.NullInt64
        packID      sql.NullInt64
        packName    sql.NullString
        packDesc    sql.NullString
        tags        sql.NullString
    )
    if err := sc.Scan(
        &s.ID,
        &s.Title,
        &description,
        &s.FileURL,
        &lossless,
        &format,
        &duration,
        &size,
        &s.CreatedAt,
        &packID,
        &packName,
        &packDesc,
        &tags,
    ); err != nil {
        return model.Sound{}, err
    }
    s.Description = strPtr(description)
    s.LosslessURL = strPtr(lossless)
    s.FileFormat = strPtr(format)
    s.Duration = f64Ptr(duration)
    s.FileSize = i64Ptr(size)
    s.SoundpackID = u64Ptr(packID)
    s.SoundpackName = strPtr(packName)
    s.SoundpackDescription = strPtr(packDesc)
    s.Tags = splitTags(tags)
    return s, nil
}

// splitTags turns a GROUP_CONCAT column into a slice; NULL or "" is empty.
func splitTags(ns sql.NullString) []string {
    if !ns.Valid || ns.String == "" {
        return []string{}
    }
    return strings.Split(ns.String, ",")
}
