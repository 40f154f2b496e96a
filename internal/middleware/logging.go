package middleware

import (
    "errors"
    "net/http"
    "runtime/debug"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/bandoneon/soundbank/internal/metrics"
)

// RequestLogger writes one structured line per request.  Only metadata is
// logged, never bodies or cookies.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            req := c.Request()
            rid := req.Header.Get(echo.HeaderXRequestID)
            if rid == "" {
                rid = uuid.NewString()
            }
            c.Response().Header().Set(echo.HeaderXRequestID, rid)

            err := next(c)
            if err != nil {
                c.Error(err)
            }

            log.Info("http",
                zap.String("id", rid),
                zap.String("method", req.Method),
                zap.String("path", req.URL.Path),
                zap.Int("status", c.Response().Status),
                zap.Duration("dur", time.Since(start)),
                zap.String("remote", c.RealIP()),
                zap.String("user", userID(c)),
            )
            return nil
        }
    }
}

// Recover turns a handler panic into a 500 and logs the stack.
func Recover(log *zap.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) (err error) {
            defer func() {
                if r := recover(); r != nil {
                    if r == http.ErrAbortHandler {
                        panic(r)
                    }
                    log.Error("panic",
                        zap.Any("reason", r),
                        zap.ByteString("stack", debug.Stack()),
                        zap.String("path", c.Request().URL.Path),
                    )
                    err = c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
                }
            }()
            return next(c)
        }
    }
}

// Metrics records request count and latency per route template.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            status := c.Response().Status
            var he *echo.HTTPError
            if err != nil && errors.As(err, &he) {
                status = he.Code
            }
            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            m.ObserveRequest(c.Request().Method, route, status, time.Since(start))
            return err
        }
    }
}
