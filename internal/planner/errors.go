package planner

import (
	"FitCoach/internal/utility"
	"github.com/labstack/echo/v4"
)

// Stable machine-readable error codes.
const (
	CodeInvalidArgument  = "invalid_argument"
	CodeNotFound         = "not_found"
	CodeGenerationFailed = "generation_failed"
	CodeInternal         = "internal"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, ErrorResponse{
		Error:     msg,
		Code:      code,
		RequestID: utility.RequestIDFromContext(c),
	})
}
