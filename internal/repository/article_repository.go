package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/model"
)

type ArticleRepo struct{ db *sql.DB }

func NewArticleRepo(db *sql.DB) *ArticleRepo { return &ArticleRepo{db: db} }

const articleSelect = `SELECT id, slug, title, abstract, author, pdf_url, created_at FROM articles`

// List returns all articles, newest first.
func (r *ArticleRepo) List(ctx context.Context) ([]model.Article, error) {
    rows, err := r.db.QueryContext(ctx, articleSelect+" ORDER BY created_at DESC, id DESC")
    if err != nil {
        return nil, errs.Storage("articles.list", err)
    }
    defer rows.Close()

    out := []model.Article{}
    for rows.Next() {
        a, err := scanArticle(rows)
        if err != nil {
            return nil, errs.Storage("articles.list", err)
        }
        out = append(out, a)
    }
    if err := rows.Err(); err != nil {
        return nil, errs.Storage("articles.list", err)
    }
    return out, nil
}

func (r *ArticleRepo) GetByID(ctx context.Context, id uint64) (*model.Article, error) {
    return r.getOne(ctx, "articles.get_by_id", articleSelect+" WHERE id = ?", id)
}

func (r *ArticleRepo) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
    return r.getOne(ctx, "articles.get_by_slug", articleSelect+" WHERE slug = ?", slug)
}

func (r *ArticleRepo) getOne(ctx context.Context, op, q string, arg any) (*model.Article, error) {
    a, err := scanArticle(r.db.QueryRowContext(ctx, q, arg))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, errs.ErrNotFound
    }
    if err != nil {
        return nil, errs.Storage(op, err)
    }
    return &a, nil
}

func scanArticle(sc rowScanner) (model.Article, error) {
    var (
        a        model.Article
        abstract sql.NullString
        author   sql.NullString
        pdf      sql.NullString
    )
    if err := sc.Scan(&a.ID, &a.Slug, &a.Title, &abstract, &author, &pdf, &a.CreatedAt); err != nil {
        return model.Article{}, err
    }
    a.Abstract = strPtr(abstract)
    a.Author = strPtr(author)
    a.PDFURL = strPtr(pdf)
    return a, nil
}
