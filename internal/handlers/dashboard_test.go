package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/profiledesk/internal/database/memory"
	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/nfrund/profiledesk/internal/handlers"
	"github.com/nfrund/profiledesk/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func dashboardRequest(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/userdashboard", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestDashboardGet(t *testing.T) {
	ctx := context.Background()

	t.Run("renders the profile", func(t *testing.T) {
		env := setupAuthTest(t, true)
		rec := postForm(env.e, "/", signupValues(), false)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		rec = dashboardRequest(env.e, authCookie(rec).Value)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Welcome, Asha Rao 🎉")
		assert.Contains(t, body, "Username: asha.rao")
		assert.Contains(t, body, "Email: asha@gmail.com")
		assert.Contains(t, body, "Phone: +919876543210")
	})

	t.Run("missing profile shows the notice", func(t *testing.T) {
		env := setupAuthTest(t, true)
		identity, err := env.identities.CreateAccount(ctx, "ghost@gmail.com", "s3cret@pass")
		require.NoError(t, err)

		rec := dashboardRequest(env.e, identity.Token)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `id="profile-missing"`)
	})

	t.Run("storage failure", func(t *testing.T) {
		e := newEcho()
		identities := memory.NewIdentityStore().WithHashCost(bcrypt.MinCost)
		identity, err := identities.CreateAccount(ctx, "asha@gmail.com", "s3cret@pass")
		require.NoError(t, err)
		e.GET("/userdashboard", handlers.NewDashboardHandler(failingProfiles{}).Get, middleware.Auth(identities))

		rec := dashboardRequest(e, identity.Token)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), domain.FallbackMessage)
	})

	t.Run("no session redirects to login", func(t *testing.T) {
		env := setupAuthTest(t, true)

		rec := dashboardRequest(env.e, "")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	})
}

func TestHealth(t *testing.T) {
	e := echo.New()
	e.GET("/health", handlers.Health)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
