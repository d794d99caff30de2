package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Error is a request-scoped error with a known HTTP mapping. Handlers and
// services return these; the central HTTPErrorHandler renders them in the
// response envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Message: msg}
}

// Upstream marks a failure in an external collaborator (the AI agent).
func Upstream(msg string) *Error {
	return &Error{Status: http.StatusBadGateway, Message: msg}
}

func Internal(msg string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg}
}

// ErrorHandler renders every uncaught error in the standard envelope.
// Store and other 5xx failures are logged with their cause but answered with
// a generic message so internals never leak to clients.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var apiErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &apiErr):
			status = apiErr.Status
			message = apiErr.Message
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
		}

		env := Response{Success: false}
		if status >= http.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Msg("request failed")
			env.Error = message
			if status == http.StatusInternalServerError {
				env.Error = "internal server error"
			}
		} else {
			env.Message = message
		}

		if err := c.JSON(status, env); err != nil {
			logger.Error().Err(err).Msg("failed to write error response")
		}
	}
}
