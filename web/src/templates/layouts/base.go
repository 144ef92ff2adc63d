package layouts

import (
	"github.com/nfrund/profiledesk/web/src/templates/partials"
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

// htmxConfig lets htmx swap 422 and 500 responses so form errors re-render in place.
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"422","swap":true},{"code":"500","swap":true,"error":true},{"code":"[45]..","swap":false,"error":true}]}`

// Base wraps page content in the HTML document shared by every screen.
func Base(title string, flashes partials.FlashData, content g.Node) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:    CalculateTitle(title),
		Language: "en",
		Head: []g.Node{
			h.Meta(h.Name("htmx-config"), h.Content(htmxConfig)),
			h.Script(h.Src("https://cdn.tailwindcss.com")),
			h.Script(h.Src("https://unpkg.com/htmx.org@2.0.4")),
			h.Link(h.Rel("stylesheet"), h.Href("/static/app.css")),
		},
		Body: []g.Node{
			h.Class("min-h-screen bg-gray-100 text-gray-900"),
			partials.Toast(flashes),
			h.Main(h.Class("flex min-h-screen items-center justify-center p-4"), content),
		},
	})
}
