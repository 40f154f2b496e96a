package model

import "time"

// Role names stored in users.role and carried in session tokens.
const (
    RoleAdmin = "admin"
    RoleUser  = "user"
)

// User represents a row in the `users` table.  Users are created at
// registration (or by the CLI for admins) and never updated by the
// application afterwards.
//
// Fields:
//  ID             – UUID primary key.
//  Email          – unique, stored lower-cased.
//  HashedPassword – bcrypt hash.
//  Role           – RoleAdmin or RoleUser.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type User struct {
    ID             string
    Email          string
    HashedPassword string
    Role           string
    CreatedAt      time.Time
    UpdatedAt      time.Time
}

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool { return r == RoleAdmin || r == RoleUser }

// Claims is the identity carried by a session token.  Tokens are stateless:
// a token stays valid until ExpiresAt even if the user's role changes.
type Claims struct {
    Subject   string
    Email     string
    Role      string
    IssuedAt  time.Time
    ExpiresAt time.Time
}

// IsAdmin reports whether the claims grant the admin role.
func (c *Claims) IsAdmin() bool { return c != nil && c.Role == RoleAdmin }
