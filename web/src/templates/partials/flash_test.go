package partials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToast(t *testing.T) {
	render := func(f FlashData) string {
		var b strings.Builder
		require.NoError(t, Toast(f).Render(&b))
		return b.String()
	}

	t.Run("empty container stays in the page", func(t *testing.T) {
		assert.Equal(t, `<div id="toast" aria-live="polite"></div>`, render(FlashData{}))
	})

	t.Run("messages are escaped and styled by kind", func(t *testing.T) {
		out := render(FlashData{
			Success: []string{"Signup Successful 🎉"},
			Error:   []string{"<b>bad</b>"},
		})
		assert.Contains(t, out, `class="toast toast-success bg-green-600`)
		assert.Contains(t, out, "Signup Successful 🎉")
		assert.Contains(t, out, `class="toast toast-error bg-red-600`)
		assert.Contains(t, out, "&lt;b&gt;bad&lt;/b&gt;")
		assert.NotContains(t, out, "<b>bad</b>")
	})
}
