package partials

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// FlashData holds the one-shot messages shown as toasts on the next page.
type FlashData struct {
	Success []string
	Error   []string
}

// Empty reports whether there is nothing to show.
func (f FlashData) Empty() bool {
	return len(f.Success) == 0 && len(f.Error) == 0
}

// Toast renders the flash messages as toast notifications. The container is
// always rendered so htmx responses can swap new toasts into it.
func Toast(flashes FlashData) g.Node {
	return h.Div(h.ID("toast"), h.Aria("live", "polite"),
		g.Map(flashes.Success, func(msg string) g.Node { return toast("success", "bg-green-600", msg) }),
		g.Map(flashes.Error, func(msg string) g.Node { return toast("error", "bg-red-600", msg) }),
	)
}

func toast(kind, color, msg string) g.Node {
	return h.Div(
		h.Class("toast toast-"+kind+" "+color+" text-white px-4 py-2 rounded shadow"),
		h.Role("status"),
		g.Text(msg),
	)
}
