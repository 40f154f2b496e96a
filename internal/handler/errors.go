package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/bandoneon/soundbank/internal/errs"
)

// respondError maps the error taxonomy onto HTTP statuses.  Storage and
// unknown errors are logged and answered with a generic message; the
// driver text never reaches the client.
func respondError(c echo.Context, log *zap.Logger, err error) error {
    var ve *errs.ValidationError
    switch {
    case errors.Is(err, errs.ErrAlreadyExists):
        body := echo.Map{"error": "already exists"}
        if errors.As(err, &ve) {
            body = echo.Map{"error": ve.Error(), "field": ve.Field}
        }
        return c.JSON(http.StatusConflict, body)
    case errors.As(err, &ve):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
    case errors.Is(err, errs.ErrValidation):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, errs.ErrInvalidCredentials):
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    case errors.Is(err, errs.ErrUnauthenticated), errors.Is(err, errs.ErrForbidden):
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    case errors.Is(err, errs.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    }
    if log != nil {
        log.Error("request failed",
            zap.String("method", c.Request().Method),
            zap.String("path", c.Request().URL.Path),
            zap.Error(err),
        )
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// bindAndValidate decodes the JSON body into dst and runs the registered
// validator over it.
func bindAndValidate(c echo.Context, dst any) error {
    if err := c.Bind(dst); err != nil {
        return errs.Validation("", "invalid body")
    }
    return c.Validate(dst)
}
