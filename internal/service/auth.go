package service

import (
    "context"
    "errors"
    "strings"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/bandoneon/soundbank/internal/errs"
    "github.com/bandoneon/soundbank/internal/model"
    "github.com/bandoneon/soundbank/internal/repository"
    "github.com/bandoneon/soundbank/internal/utils"
)

// Session is the result of a successful login.
type Session struct {
    Token     string
    ExpiresAt time.Time
    User      *model.User
}

// AuthService registers accounts and exchanges credentials for session tokens.
type AuthService struct {
    users      repository.UserRepository
    tokens     *utils.TokenService
    bcryptCost int
    log        *zap.Logger

    // dummyHash is compared on unknown emails so both failure paths pay
    // the same bcrypt cost.
    dummyHash string
    verify    func(hash, plain string) bool
}

func NewAuthService(users repository.UserRepository, tokens *utils.TokenService, bcryptCost int, log *zap.Logger) *AuthService {
    if log == nil {
        log = zap.NewNop()
    }
    dummy, err := utils.HashPassword(uuid.NewString(), bcryptCost)
    if err != nil {
        log.Warn("dummy hash failed", zap.Error(err))
    }
    return &AuthService{
        users:      users,
        tokens:     tokens,
        bcryptCost: bcryptCost,
        log:        log.Named("auth"),
        dummyHash:  dummy,
        verify:     utils.VerifyPassword,
    }
}

// Register creates a regular user account.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, error) {
    return s.CreateUser(ctx, email, password, model.RoleUser)
}

// CreateUser creates an account with an explicit role.  The HTTP surface
// only registers regular users; admins are bootstrapped from the CLI.
func (s *AuthService) CreateUser(ctx context.Context, email, password, role string) (*model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    if email == "" || !strings.Contains(email, "@") {
        return nil, errs.Validation("email", "must be a valid email address")
    }
    if password == "" {
        return nil, errs.Validation("password", "is required")
    }
    if !model.ValidRole(role) {
        return nil, errs.Validation("role", "must be one of: admin user")
    }
    hash, err := utils.HashPassword(password, s.bcryptCost)
    if err != nil {
        return nil, err
    }
    u := &model.User{
        ID:             uuid.NewString(),
        Email:          email,
        HashedPassword: hash,
        Role:           role,
    }
    if err := s.users.Create(ctx, u); err != nil {
        if errors.Is(err, errs.ErrAlreadyExists) {
            return nil, errs.Conflict("email", "is already registered")
        }
        return nil, err
    }
    s.log.Info("user created", zap.String("user_id", u.ID), zap.String("role", u.Role))
    return u, nil
}

// Login verifies credentials and issues a session token.  An unknown email
// and a wrong password both yield errs.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    if email == "" || password == "" {
        return nil, errs.ErrInvalidCredentials
    }
    u, err := s.users.GetByEmail(ctx, email)
    if err != nil {
        if errors.Is(err, errs.ErrNotFound) {
            s.verify(s.dummyHash, password)
            return nil, errs.ErrInvalidCredentials
        }
        return nil, err
    }
    if !s.verify(u.HashedPassword, password) {
        return nil, errs.ErrInvalidCredentials
    }
    token, exp, err := s.tokens.Issue(model.Claims{Subject: u.ID, Email: u.Email, Role: u.Role})
    if err != nil {
        return nil, err
    }
    return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// Me loads the account behind verified claims.  A deleted account reads as
// unauthenticated.
func (s *AuthService) Me(ctx context.Context, c *model.Claims) (*model.User, error) {
    if c == nil || c.Subject == "" {
        return nil, errs.ErrUnauthenticated
    }
    u, err := s.users.GetByID(ctx, c.Subject)
    if errors.Is(err, errs.ErrNotFound) {
        return nil, errs.ErrUnauthenticated
    }
    return u, err
}
