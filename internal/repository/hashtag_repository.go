package repository

import (
    "context"
    "database/sql"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/model"
)

// HashtagRepo manages hashtags and the entity_hashtags association table.
type HashtagRepo struct {
    db *sql.DB
}

func NewHashtagRepo(db *sql.DB) *HashtagRepo { return &HashtagRepo{db: db} }

// Upsert inserts tag or returns the id of the existing row.  The
// LAST_INSERT_ID(id) assignment makes LastInsertId report the existing id on
// conflict, so concurrent inserts of the same new tag both succeed with one
// row.
func (r *HashtagRepo) Upsert(ctx context.Context, tag string) (uint64, error) {
    const q = `INSERT INTO hashtags (tag) VALUES (?)
        ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`
    res, err := r.db.ExecContext(ctx, q, tag)
    if err != nil {
        return 0, errs.Storage("hashtags.upsert", err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, errs.Storage("hashtags.upsert", err)
    }
    return uint64(id), nil
}

// Link inserts an association row; the composite primary key makes a repeat
// of the same pair a no-op.
func (r *HashtagRepo) Link(ctx context.Context, entityID uint64, entity model.EntityType, hashtagID uint64) error {
    const q = `INSERT IGNORE INTO entity_hashtags (entity_id, entity_type, hashtag_id) VALUES (?, ?, ?)`
    if _, err := r.db.ExecContext(ctx, q, entityID, string(entity), hashtagID); err != nil {
        return errs.Storage("hashtags.link", err)
    }
    return nil
}

// ForEntity lists the hashtags linked to an entity.
func (r *HashtagRepo) ForEntity(ctx context.Context, entityID uint64, entity model.EntityType) ([]model.Hashtag, error) {
    const q = `SELECT h.id, h.tag
        FROM hashtags h
        JOIN entity_hashtags eh ON eh.hashtag_id = h.id
        WHERE eh.entity_id = ? AND eh.entity_type = ?
        ORDER BY h.tag`
    rows, err := r.db.QueryContext(ctx, q, entityID, string(entity))
    if err != nil {
        return nil, errs.Storage("hashtags.for_entity", err)
    }
    defer rows.Close()

    out := []model.Hashtag{}
    for rows.Next() {
        var h model.Hashtag
        if err := rows.Scan(&h.ID, &h.Tag); err != nil {
            return nil, errs.Storage("hashtags.for_entity", err)
        }
        out = append(out, h)
    }
    if err := rows.Err(); err != nil {
        return nil, errs.Storage("hashtags.for_entity", err)
    }
    return out, nil
}

func (r *HashtagRepo) Count(ctx context.Context) (int64, error) {
    var n int64
    if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hashtags").Scan(&n); err != nil {
        return 0, errs.Storage("hashtags.count", err)
    }
    return n, nil
}
