package pages

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

type fieldProps struct {
	Label       string
	Name        string
	Type        string
	Value       string
	Placeholder string
	Error       string
	Prefix      string
}

// field renders a labelled input with its validation message underneath.
func field(p fieldProps) g.Node {
	inputClass := "w-full rounded border px-3 py-2 focus:outline-none focus:ring-2 focus:ring-indigo-500"
	if p.Error != "" {
		inputClass += " border-red-500"
	}

	input := h.Input(
		h.Type(p.Type),
		h.ID(p.Name),
		h.Name(p.Name),
		h.Class(inputClass),
		g.If(p.Value != "", h.Value(p.Value)),
		g.If(p.Placeholder != "", h.Placeholder(p.Placeholder)),
		g.If(p.Error != "", h.Aria("invalid", "true")),
	)

	return h.Div(
		h.Class("mb-4"),
		h.Label(h.For(p.Name), h.Class("mb-1 block text-sm font-medium"), g.Text(p.Label)),
		g.If(p.Prefix == "", input),
		g.If(p.Prefix != "",
			h.Div(
				h.Class("flex items-center gap-2"),
				h.Span(h.Class("text-gray-600"), g.Text(p.Prefix)),
				input,
			),
		),
		g.If(p.Error != "",
			h.P(h.Class("field-error mt-1 text-sm text-red-600"), h.Data("field", p.Name), g.Text(p.Error)),
		),
	)
}

func submitButton(label, loadingID, loadingText string) g.Node {
	return h.Button(
		h.Type("submit"),
		h.Class("w-full rounded bg-indigo-600 py-2 font-semibold text-white hover:bg-indigo-700"),
		g.Attr("hx-disabled-elt", "this"),
		g.Text(label),
		h.Span(
			h.ID(loadingID),
			h.Class("htmx-indicator ml-2"),
			g.Text(loadingText),
		),
	)
}
