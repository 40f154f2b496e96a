package errs

import (
    "context"
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestValidation_UnwrapsToSentinel(t *testing.T) {
    err := Validation("title", "is required")
    require.ErrorIs(t, err, ErrValidation)
    assert.Equal(t, "title: is required", err.Error())

    var ve *ValidationError
    require.ErrorAs(t, err, &ve)
    assert.Equal(t, "title", ve.Field)

    assert.Equal(t, "bad input", (&ValidationError{Message: "bad input"}).Error())
}

func TestStorage_WrapsAndPreserves(t *testing.T) {
    assert.NoError(t, Storage("op", nil))

    err := Storage("sounds.list", context.DeadlineExceeded)
    require.ErrorIs(t, err, ErrStorage)
    require.ErrorIs(t, err, context.DeadlineExceeded)
    assert.Contains(t, err.Error(), "sounds.list")

    // taxonomy errors pass through untouched
    assert.Same(t, ErrNotFound, Storage("x", ErrNotFound))
    assert.Same(t, ErrAlreadyExists, Storage("x", ErrAlreadyExists))
}

func TestConfiguration(t *testing.T) {
    err := Configuration("JWT_SECRET")
    require.ErrorIs(t, err, ErrConfiguration)
    assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestTagError(t *testing.T) {
    cause := errors.New("deadlock")
    err := &TagError{Tag: "ambient", Err: cause}
    require.ErrorIs(t, err, cause)
    assert.Equal(t, `tag "ambient": deadlock`, err.Error())
}

func TestConflict(t *testing.T) {
    err := Conflict("name", "soundpack name already exists")
    require.ErrorIs(t, err, ErrValidation)
    require.ErrorIs(t, err, ErrAlreadyExists)
    assert.Equal(t, "name: soundpack name already exists", err.Error())

    var ve *ValidationError
    require.ErrorAs(t, err, &ve)
    assert.Equal(t, "name", ve.Field)
}
