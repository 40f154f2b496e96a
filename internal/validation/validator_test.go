package validation

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/bandoneon/soundbank/internal/errs"
)

type loginForm struct {
    Email    string `json:"email" validate:"required,email"`
    Password string `json:"password,omitempty" validate:"required,min=8"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
    v := New()

    err := v.Validate(loginForm{Email: "ana@example.com", Password: "short"})
    require.ErrorIs(t, err, errs.ErrValidation)
    var ve *errs.ValidationError
    require.ErrorAs(t, err, &ve)
    assert.Equal(t, "password", ve.Field)
    assert.Equal(t, "must be at least 8 characters", ve.Message)
}

func TestValidate_FirstFieldByName(t *testing.T) {
    err := New().Validate(loginForm{})
    var ve *errs.ValidationError
    require.ErrorAs(t, err, &ve)
    assert.Equal(t, "email", ve.Field)
    assert.Equal(t, "is required", ve.Message)
}

func TestValidate_OK(t *testing.T) {
    assert.NoError(t, New().Validate(loginForm{Email: "ana@example.com", Password: "bandoneon"}))
}
