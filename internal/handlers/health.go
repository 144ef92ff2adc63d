package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// HealthChecker is a backend whose connection state is tracked in process.
type HealthChecker interface {
	Name() string
	IsHealthy() bool
}

// Health answers "OK" while every checker is healthy, and 503 naming the
// failing backends otherwise.
func Health(checkers ...HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		var failing []string
		for _, checker := range checkers {
			if !checker.IsHealthy() {
				failing = append(failing, checker.Name())
			}
		}
		if len(failing) > 0 {
			return c.String(http.StatusServiceUnavailable, "unhealthy: "+strings.Join(failing, ", "))
		}
		return c.String(http.StatusOK, "OK")
	}
}
