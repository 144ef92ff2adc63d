package server

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// setupErrorHandling installs an HTTP error handler that logs unhandled
// errors with a stack trace and answers with a plain message.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
			if code >= http.StatusInternalServerError {
				slog.Error("Internal Server Error", "event", "http_error", "status", code, "error", err,
					"path", c.Request().URL.Path)
			}
		} else {
			slog.Error("Internal Server Error (Unhandled)", "event", "http_unhandled_error",
				"error", err, "path", c.Request().URL.Path, "stack_trace", string(debug.Stack()))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.String(code, message)
		}
		if err != nil {
			slog.Error("Failed to write error response", "error", err)
		}
	}
}
