package pages

import (
	"github.com/nfrund/profiledesk/internal/view/dto/dashboard"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Dashboard shows the signed in user's profile.
func Dashboard(data dashboard.Data) g.Node {
	return h.Div(
		h.ID("dashboard"),
		h.Class("w-full max-w-md rounded-xl bg-white p-8 text-center shadow-lg"),
		h.H1(h.Class("mb-4 text-2xl font-bold text-green-800"), g.Text("User Dashboard")),
		g.If(data.Found,
			g.Group([]g.Node{
				h.P(h.Class("text-lg font-semibold"), g.Text("Welcome, "+data.Name+" 🎉")),
				h.P(h.Class("mt-2 text-gray-700"), g.Text("Username: "+data.Username)),
				h.P(h.Class("mt-1 text-gray-700"), g.Text("Email: "+data.Email)),
				h.P(h.Class("mt-1 text-gray-700"), g.Text("Phone: "+data.Phone)),
			}),
		),
		g.If(!data.Found,
			h.P(h.ID("profile-missing"), h.Class("text-gray-600"), g.Text("No profile found for this account.")),
		),
		h.A(h.Href("/logout"), h.Class("mt-6 inline-block text-sm text-green-800 hover:underline"), g.Text("Logout")),
	)
}
