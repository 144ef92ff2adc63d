package view

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// Redirect sends the browser to path. htmx requests get an HX-Redirect
// header so the whole page navigates instead of swapping a fragment.
func Redirect(c echo.Context, path string) error {
	if IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", path)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, path)
}
