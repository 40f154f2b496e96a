// Package errs defines the error taxonomy shared by repositories, services and
// handlers. Handlers translate these values into HTTP status codes; lower
// layers only wrap and return them.
package errs

import (
    "errors"
    "fmt"
)

var (
    // ErrConfiguration means a required secret or credential is missing. It is
    // fatal at process start and never produced per request.
    ErrConfiguration = errors.New("configuration error")

    // ErrValidation marks client-caused input problems (missing field,
    // malformed id, referenced entity not found).
    ErrValidation = errors.New("validation failed")

    // ErrUnauthenticated covers missing, malformed, badly signed and expired
    // session tokens. Callers never learn which of those it was.
    ErrUnauthenticated = errors.New("unauthenticated")

    // ErrForbidden is a valid session with an insufficient role.
    ErrForbidden = errors.New("forbidden")

    // ErrInvalidCredentials is returned by login for an unknown email and for
    // a wrong password alike.
    ErrInvalidCredentials = errors.New("invalid credentials")

    // ErrNotFound indicates the requested entity does not exist.
    ErrNotFound = errors.New("not found")

    // ErrAlreadyExists indicates a unique constraint violation.
    ErrAlreadyExists = errors.New("already exists")

    // ErrStorage wraps query and connection failures.
    ErrStorage = errors.New("storage error")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
    Field   string
    Message string
}

func (e *ValidationError) Error() string {
    if e.Field == "" {
        return e.Message
    }
    return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation builds a ValidationError for field.
func Validation(field, msg string) error {
    return &ValidationError{Field: field, Message: msg}
}

// Configuration reports a missing or unusable setting.
func Configuration(key string) error {
    return fmt.Errorf("%w: %s is required", ErrConfiguration, key)
}

// Storage wraps a driver error with the failed operation name. Errors that
// already carry a taxonomy sentinel are returned unchanged.
func Storage(op string, err error) error {
    if err == nil {
        return nil
    }
    if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrStorage) {
        return err
    }
    return &storageError{op: op, err: err}
}

type storageError struct {
    op  string
    err error
}

func (e *storageError) Error() string { return e.op + ": " + e.err.Error() }

func (e *storageError) Unwrap() []error { return []error{ErrStorage, e.err} }

// TagError records a single tag that could not be linked during an otherwise
// successful sound or soundpack creation.
type TagError struct {
    Tag string
    Err error
}

func (e *TagError) Error() string { return fmt.Sprintf("tag %q: %v", e.Tag, e.Err) }

func (e *TagError) Unwrap() error { return e.Err }

// Conflict reports input that collides with an existing unique value. It
// matches both ErrValidation and ErrAlreadyExists.
func Conflict(field, msg string) error {
    return &conflictError{ValidationError{Field: field, Message: msg}}
}

type conflictError struct{ ValidationError }

func (e *conflictError) Unwrap() []error { return []error{ErrValidation, ErrAlreadyExists} }

// As exposes the field and message as a *ValidationError.
func (e *conflictError) As(target any) bool {
    if ve, ok := target.(**ValidationError); ok {
        *ve = &e.ValidationError
        return true
    }
    return false
}
