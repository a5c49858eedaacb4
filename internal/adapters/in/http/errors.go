package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"qrcafe/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error Error `json:"error"`
}

// statusFor maps an application error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errs.IsValidation(err), errors.Is(err, errs.ErrTransitionIsInvalid):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrCredentialsAreInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrObjectAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, errs.ErrServiceIsUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, code int, message string) error {
	return c.JSON(code, errorResponse{Error: Error{Code: code, Message: message}})
}

// NewErrorHandler renders handler errors with the error envelope.
// Internal errors are logged and reported without detail.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			message := http.StatusText(httpErr.Code)
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
			_ = writeError(c, httpErr.Code, message)
			return
		}

		code := statusFor(err)
		message := err.Error()
		switch code {
		case http.StatusInternalServerError:
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
			message = http.StatusText(code)
		case http.StatusServiceUnavailable:
			logger.WarnContext(c.Request().Context(), "store unavailable", "path", c.Path(), "error", err)
			message = "order store is unavailable, try again"
		case http.StatusUnauthorized:
			message = "invalid credentials"
		}
		_ = writeError(c, code, message)
	}
}
