package utility

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Context keys set by the request logger middleware.
const (
	LoggerKey    = "logger"
	RequestIDKey = "request_id"
)

// GetRealIP is a helper function to get the user's real IP address.
// It checks proxy headers first.
func GetRealIP(c echo.Context) string {
	// This header can be a list: "client, proxy1, proxy2"
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	if xRealIP := c.Request().Header.Get("X-Real-IP"); xRealIP != "" {
		return xRealIP
	}

	return c.RealIP()
}

// LoggerFromContext returns the request-scoped logger, or the global one when
// the middleware did not run.
func LoggerFromContext(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok && l != nil {
		return l
	}
	return &log.Logger
}

// RequestIDFromContext returns "" when no request id was assigned.
func RequestIDFromContext(c echo.Context) string {
	id, _ := c.Get(RequestIDKey).(string)
	return id
}

// RequestValidator plugs go-playground/validator into echo's c.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

func NewValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *RequestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
