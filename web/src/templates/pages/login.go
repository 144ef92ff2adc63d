package pages

import (
	"github.com/nfrund/profiledesk/internal/view/dto/auth"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// Login is the sign in screen.
func Login(data auth.LoginData) g.Node {
	return h.Div(
		h.ID("login-card"),
		h.Class("w-full max-w-md rounded-xl bg-white p-8 shadow-2xl"),
		h.H1(h.Class("mb-6 text-3xl font-extrabold text-indigo-700"), g.Text("Login")),
		h.Form(
			h.Method("post"),
			h.Action("/login"),
			g.Attr("novalidate"),
			hx.Post("/login"),
			hx.Target("#login-card"),
			hx.Select("#login-card"),
			hx.Swap("outerHTML"),
			g.Attr("hx-select-oob", "#toast"),
			hx.Indicator("#login-loading"),
			field(fieldProps{Label: "Username", Name: "username", Type: "text", Value: data.Username, Error: data.Errors.Get("username")}),
			field(fieldProps{Label: "Password", Name: "password", Type: "password", Error: data.Errors.Get("password")}),
			submitButton("Login", "login-loading", "Logging you in..."),
		),
		h.P(
			h.Class("mt-4 text-center text-sm text-gray-600"),
			g.Text("New here? "),
			h.A(h.Href("/"), h.Class("text-indigo-600 hover:underline"), g.Text("Create an account")),
		),
	)
}
