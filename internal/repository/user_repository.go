package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/model"
)

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts u.  The email is stored lowercased; a taken email maps to
// errs.ErrAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
    u.Email = strings.ToLower(strings.TrimSpace(u.Email))
    now := nowUTC()
    if u.CreatedAt.IsZero() {
        u.CreatedAt = now
    }
    if u.UpdatedAt.IsZero() {
        u.UpdatedAt = now
    }
    _, err := r.db.ExecContext(ctx,
        "INSERT INTO users (id, email, hashed_password, role, created_at, updated_at) VALUES (?,?,?,?,?,?)",
        u.ID, u.Email, u.HashedPassword, u.Role, u.CreatedAt, u.UpdatedAt)
    if err != nil {
        if isDuplicateKey(err) {
            return errs.ErrAlreadyExists
        }
        return errs.Storage("users.create", err)
    }
    return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    row := r.db.QueryRowContext(ctx,
        "SELECT id,email,hashed_password,role,created_at,updated_at FROM users WHERE email=? LIMIT 1", email)
    return scanUser(row, "users.get_by_email")
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
    row := r.db.QueryRowContext(ctx,
        "SELECT id,email,hashed_password,role,created_at,updated_at FROM users WHERE id=? LIMIT 1", id)
    return scanUser(row, "users.get_by_id")
}

func scanUser(row *sql.Row, op string) (*model.User, error) {
    var u model.User
    err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.Role, &u.CreatedAt, &u.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, errs.ErrNotFound
    }
    if err != nil {
        return nil, errs.Storage(op, err)
    }
    return &u, nil
}
