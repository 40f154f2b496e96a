// Package validation binds go-playground/validator to echo's Validator hook.
package validation

import (
    "errors"
    "fmt"
    "reflect"
    "sort"
    "strings"

    "github.com/go-playground/validator/v10"

    "github.com/bandoneon/soundbank/internal/errs"
)

// Validator implements echo.Validator.
type Validator struct {
    v *validator.Validate
}

// New creates a validator that reports JSON field names.
func New() *Validator {
    v := validator.New()
    v.RegisterTagNameFunc(func(fld reflect.StructField) string {
        name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
        if name == "" || name == "-" {
            return fld.Name
        }
        return name
    })
    return &Validator{v: v}
}

// Validate checks s and returns an *errs.ValidationError for the first
// failing field in name order.
func (v *Validator) Validate(s any) error {
    err := v.v.Struct(s)
    if err == nil {
        return nil
    }
    var fieldErrs validator.ValidationErrors
    if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
        return err
    }
    sort.SliceStable(fieldErrs, func(i, j int) bool { return fieldErrs[i].Field() < fieldErrs[j].Field() })
    fe := fieldErrs[0]
    return errs.Validation(fe.Field(), friendlyMessage(fe))
}

func friendlyMessage(e validator.FieldError) string {
    switch e.Tag() {
    case "required":
        return "is required"
    case "email":
        return "must be a valid email address"
    case "min":
        return fmt.Sprintf("must be at least %s characters", e.Param())
    case "max":
        return fmt.Sprintf("must not exceed %s characters", e.Param())
    case "url", "http_url":
        return "must be a valid URL"
    case "oneof":
        return "must be one of: " + e.Param()
    case "gte":
        return "must be greater than or equal to " + e.Param()
    case "gt":
        return "must be greater than " + e.Param()
    default:
        return "is invalid"
    }
}
