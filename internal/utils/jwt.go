package utils // package utils provides helpers for tags, session tokens and password hashing

import (
    "errors" // errors is used to build the unexpected-method error
    "time"   // time utilities for issue and expiry timestamps

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

    "github.com/bandoneon/soundbank/internal/errs"  // error taxonomy (configuration errors)
    "github.com/bandoneon/soundbank/internal/model" // Claims carried by a session
)

// DefaultSessionTTL is the lifetime of a session token and its cookie.
const DefaultSessionTTL = 24 * time.Hour

// sessionClaims is the JWT payload.  Registered claims carry sub/iat/exp;
// role and email are private claims.
type sessionClaims struct {
    Role  string `json:"role"`
    Email string `json:"email,omitempty"`
    jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.  Tokens are not
// persisted; validity is decided by signature and expiry alone.
type TokenService struct {
    secret []byte
    ttl    time.Duration
    now    func() time.Time
}

// NewTokenService returns a TokenService signing with secret.  An empty
// secret is a configuration error and must stop the process at startup.
// A non-positive ttl falls back to DefaultSessionTTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
    if secret == "" {
        return nil, errs.Configuration("JWT_SECRET")
    }
    if ttl <= 0 {
        ttl = DefaultSessionTTL
    }
    return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for the subject and role in c.  IssuedAt and
// ExpiresAt in c are ignored and recomputed.
func (s *TokenService) Issue(c model.Claims) (string, time.Time, error) {
    now := s.now().UTC()
    exp := now.Add(s.ttl)
    claims := sessionClaims{
        Role:  c.Role,
        Email: c.Email,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   c.Subject,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString(s.secret)
    if err != nil {
        return "", time.Time{}, err
    }
    return signed, exp, nil
}

var errUnexpectedMethod = errors.New("unexpected signing method")

// Verify parses raw and returns its claims.  Any failure (malformed token,
// wrong algorithm, bad signature, expired, missing subject) yields
// (nil, false); the reason is deliberately not reported.
func (s *TokenService) Verify(raw string) (*model.Claims, bool) {
    if raw == "" {
        return nil, false
    }
    var claims sessionClaims
    tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
        // Reject anything that is not HMAC so a forged "none"/RSA header cannot pass.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, errUnexpectedMethod
        }
        return s.secret, nil
    },
        jwt.WithExpirationRequired(),
        jwt.WithTimeFunc(s.now),
    )
    if err != nil || !tok.Valid || claims.Subject == "" {
        return nil, false
    }
    out := &model.Claims{
        Subject: claims.Subject,
        Email:   claims.Email,
        Role:    claims.Role,
    }
    if claims.IssuedAt != nil {
        out.IssuedAt = claims.IssuedAt.Time
    }
    if claims.ExpiresAt != nil {
        out.ExpiresAt = claims.ExpiresAt.Time
    }
    return out, true
}
