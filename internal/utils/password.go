package utils

import (
    "golang.org/x/crypto/bcrypt"

    "github.com/bandoneon/soundbank/internal/errs"
)

// DefaultBcryptCost is used when the configured cost is outside bcrypt's range.
const DefaultBcryptCost = 10

// HashPassword returns a bcrypt hash of plain using cost.
func HashPassword(plain string, cost int) (string, error) {
    if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
        cost = DefaultBcryptCost
    }
    b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
    if err == bcrypt.ErrPasswordTooLong {
        return "", errs.Validation("password", "must not exceed 72 bytes")
    }
    if err != nil {
        return "", err
    }
    return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password.
func VerifyPassword(hash, plain string) bool {
    return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
