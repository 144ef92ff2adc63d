// Package rendering renders templ components and gomponents nodes through
// echo's Renderer interface.
package rendering

import (
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// UniversalRenderer renders templ components and anything with a
// Render(io.Writer) error method, such as gomponents.Node.
type UniversalRenderer struct{}

// NewUniversalRenderer creates a new UniversalRenderer instance.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

type gomponentNode interface {
	Render(w io.Writer) error
}

// Render implements echo.Renderer for c.Render(status, name, component).
// The component is passed as data; name is ignored. echo buffers the output,
// so a failed render still produces an error response instead of a partial page.
func (tr *UniversalRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	switch component := data.(type) {
	case templ.Component:
		return component.Render(c.Request().Context(), w)
	case gomponentNode:
		return component.Render(w)
	default:
		return fmt.Errorf("unsupported component type: %T", data)
	}
}
