package pages

import (
	"github.com/nfrund/profiledesk/internal/view/dto/auth"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// Signup is the account creation screen.
func Signup(data auth.SignupData) g.Node {
	return h.Div(
		h.ID("signup-card"),
		h.Class("w-full max-w-md rounded-xl bg-white p-8 shadow-2xl"),
		h.H1(h.Class("mb-6 text-3xl font-extrabold text-indigo-700"), g.Text("Create your account")),
		h.Form(
			h.Method("post"),
			h.Action("/"),
			g.Attr("novalidate"),
			hx.Post("/"),
			hx.Target("#signup-card"),
			hx.Select("#signup-card"),
			hx.Swap("outerHTML"),
			g.Attr("hx-select-oob", "#toast"),
			hx.Indicator("#signup-loading"),
			field(fieldProps{Label: "Name", Name: "name", Type: "text", Value: data.Name, Error: data.Errors.Get("name")}),
			field(fieldProps{Label: "Username", Name: "username", Type: "text", Value: data.Username, Error: data.Errors.Get("username")}),
			field(fieldProps{Label: "Email", Name: "email", Type: "email", Value: data.Email, Placeholder: "you@gmail.com", Error: data.Errors.Get("email")}),
			field(fieldProps{Label: "Phone", Name: "phone", Type: "tel", Value: data.Phone, Placeholder: "10-digit number", Prefix: data.CountryCode, Error: data.Errors.Get("phone")}),
			field(fieldProps{Label: "Password", Name: "password", Type: "password", Error: data.Errors.Get("password")}),
			field(fieldProps{Label: "Confirm Password", Name: "confirm", Type: "password", Error: data.Errors.Get("confirm")}),
			submitButton("Sign Up", "signup-loading", "Signing you up..."),
		),
		h.P(
			h.Class("mt-4 text-center text-sm text-gray-600"),
			g.Text("Already have an account? "),
			h.A(h.Href("/login"), h.Class("text-indigo-600 hover:underline"), g.Text("Login")),
		),
	)
}
