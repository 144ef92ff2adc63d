package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/profiledesk/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

func setupTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	store := sessions.NewCookieStore([]byte(testSessionSecret))
	sessionMiddleware := session.Middleware(store)

	// Run a dummy handler through the middleware so the session is in the context.
	var c echo.Context
	handler := func(ctx echo.Context) error { c = ctx; return nil }
	_ = sessionMiddleware(handler)(e.NewContext(req, rec))

	return c, rec
}

func TestFlashMessages(t *testing.T) {
	t.Run("Set and Get Success Flash", func(t *testing.T) {
		c, _ := setupTestContext()

		view.SetFlashSuccess(c, "Signup Successful 🎉")

		flashes := view.GetFlashData(c)
		require.Len(t, flashes.Success, 1)
		assert.Equal(t, "Signup Successful 🎉", flashes.Success[0])
		assert.Empty(t, flashes.Error)

		flashesAfterRead := view.GetFlashData(c)
		assert.Empty(t, flashesAfterRead.Success, "Flashes should be cleared after being read")
	})

	t.Run("Set and Get Error Flash", func(t *testing.T) {
		c, _ := setupTestContext()

		view.SetFlashError(c, "It failed!")

		flashes := view.GetFlashData(c)
		require.Len(t, flashes.Error, 1)
		assert.Equal(t, "It failed!", flashes.Error[0])
		assert.Empty(t, flashes.Success)
	})

	t.Run("GetFlashData with no flashes set", func(t *testing.T) {
		c, _ := setupTestContext()

		flashes := view.GetFlashData(c)
		assert.True(t, flashes.Empty())
	})

	t.Run("no session middleware", func(t *testing.T) {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

		assert.NotPanics(t, func() { view.SetFlashSuccess(c, "ignored") })
		assert.True(t, view.GetFlashData(c).Empty())
	})
}
