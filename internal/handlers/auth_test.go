package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/profiledesk/internal/database/memory"
	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/nfrund/profiledesk/internal/handlers"
	"github.com/nfrund/profiledesk/internal/middleware"
	"github.com/nfrund/profiledesk/internal/rendering"
	"github.com/nfrund/profiledesk/internal/signup"
	"github.com/nfrund/profiledesk/internal/testutils"
	"github.com/nfrund/profiledesk/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

type testEnv struct {
	e          *echo.Echo
	identities *memory.IdentityStore
	profiles   *memory.ProfileStore
}

// failingProfiles fails every call with a storage error.
type failingProfiles struct{}

func (failingProfiles) Save(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	return nil, errors.New("storage offline")
}

func (failingProfiles) GetByUID(ctx context.Context, uid string) (*domain.Profile, error) {
	return nil, errors.New("storage offline")
}

func (failingProfiles) FindByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return nil, errors.New("storage offline")
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Renderer = rendering.NewUniversalRenderer()
	e.Validator = validation.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
	return e
}

func setupAuthTest(t *testing.T, verify bool) *testEnv {
	t.Helper()
	env := &testEnv{
		e:          newEcho(),
		identities: memory.NewIdentityStore().WithHashCost(bcrypt.MinCost),
		profiles:   memory.NewProfileStore(),
	}

	svc := signup.NewService(env.identities, env.profiles, nil, "+91")
	signupHandler := handlers.NewSignupHandler(svc, "+91", time.Hour)
	loginHandler := handlers.NewLoginHandler(env.identities, env.profiles, verify, time.Hour)
	dashboardHandler := handlers.NewDashboardHandler(env.profiles)

	env.e.GET("/", signupHandler.Get)
	env.e.POST("/", signupHandler.Post)
	env.e.GET("/login", loginHandler.Get)
	env.e.POST("/login", loginHandler.Post)
	env.e.GET("/logout", loginHandler.Logout)
	env.e.GET("/userdashboard", dashboardHandler.Get, middleware.Auth(env.identities))
	return env
}

func postForm(e *echo.Echo, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signupValues() url.Values {
	return testutils.SignupValues(testutils.SignupForm())
}

// assertFlashMessage decodes the flash session from the response cookies.
func assertFlashMessage(t *testing.T, rec *httptest.ResponseRecorder, key, expectedMessage string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	sess, err := sessions.NewCookieStore([]byte(testSessionSecret)).Get(req, "flash-session")
	require.NoError(t, err)

	flashes := sess.Flashes(key)
	require.NotEmpty(t, flashes, "expected flash message but found none for key: %s", key)
	assert.Equal(t, expectedMessage, flashes[0])
}

func authCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.AuthCookieName {
			return c
		}
	}
	return nil
}

func TestSignupGet(t *testing.T) {
	env := setupAuthTest(t, true)

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="signup-card"`)
	assert.Contains(t, body, "+91")
	assert.Contains(t, body, "Signing you up...")
}

func TestSignupPost(t *testing.T) {
	t.Run("success sets cookie, flash and redirects to login", func(t *testing.T) {
		env := setupAuthTest(t, true)

		rec := postForm(env.e, "/", signupValues(), false)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
		require.NotNil(t, authCookie(rec))
		assertFlashMessage(t, rec, "success", "Signup Successful 🎉")

		p, err := env.profiles.FindByUsername(context.Background(), "asha.rao")
		require.NoError(t, err)
		assert.Equal(t, "+919876543210", p.Phone)
	})

	t.Run("htmx success uses HX-Redirect", func(t *testing.T) {
		env := setupAuthTest(t, true)

		rec := postForm(env.e, "/", signupValues(), true)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
	})

	t.Run("invalid fields re-render with messages", func(t *testing.T) {
		env := setupAuthTest(t, true)
		form := signupValues()
		form.Set("name", "Asha99")
		form.Set("email", "asha@yahoo.com")
		form.Set("confirm", "different")

		rec := postForm(env.e, "/", form, false)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Only alphabets allowed")
		assert.Contains(t, body, "Must be a valid Google email")
		assert.Contains(t, body, "Passwords do not match")
		assert.Contains(t, body, `value="asha@yahoo.com"`, "non-secret values are kept")
		assert.NotContains(t, body, "s3cret@pass", "passwords are never echoed")
		assert.Nil(t, authCookie(rec))
	})

	t.Run("duplicate email shows the catalog message", func(t *testing.T) {
		env := setupAuthTest(t, true)
		require.Equal(t, http.StatusSeeOther, postForm(env.e, "/", signupValues(), false).Code)

		form := signupValues()
		form.Set("username", "asha.r")
		rec := postForm(env.e, "/", form, false)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "This email is already registered. Please login!")
	})

	t.Run("taken username is rejected and the owner can still log in", func(t *testing.T) {
		env := setupAuthTest(t, true)
		require.Equal(t, http.StatusSeeOther, postForm(env.e, "/", signupValues(), false).Code)

		form := signupValues()
		form.Set("email", "other@gmail.com")
		form.Set("password", "other@pass1")
		form.Set("confirm", "other@pass1")
		rec := postForm(env.e, "/", form, false)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "This username is already taken!")
		assert.Nil(t, authCookie(rec))

		login := postForm(env.e, "/login", url.Values{"username": {"asha.rao"}, "password": {"s3cret@pass"}}, false)
		assert.Equal(t, http.StatusSeeOther, login.Code)
		assert.Equal(t, "/userdashboard", login.Header().Get(echo.HeaderLocation))
	})

	t.Run("storage failure shows the error text", func(t *testing.T) {
		e := newEcho()
		identities := memory.NewIdentityStore().WithHashCost(bcrypt.MinCost)
		svc := signup.NewService(identities, failingProfiles{}, nil, "+91")
		h := handlers.NewSignupHandler(svc, "+91", time.Hour)
		e.POST("/", h.Post)

		rec := postForm(e, "/", signupValues(), false)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "storage offline")
	})
}

func TestLoginPost(t *testing.T) {
	t.Run("invalid fields re-render with messages", func(t *testing.T) {
		env := setupAuthTest(t, true)

		rec := postForm(env.e, "/login", url.Values{"username": {"bad user!"}}, false)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Only alphanumeric and special chars . _ @ - allowed")
		assert.Contains(t, body, "Password is required")
	})

	t.Run("verified login by username", func(t *testing.T) {
		env := setupAuthTest(t, true)
		require.Equal(t, http.StatusSeeOther, postForm(env.e, "/", signupValues(), false).Code)

		rec := postForm(env.e, "/login", url.Values{"username": {"asha.rao"}, "password": {"s3cret@pass"}}, false)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/userdashboard", rec.Header().Get(echo.HeaderLocation))
		require.NotNil(t, authCookie(rec))
		assertFlashMessage(t, rec, "success", "Login Successful 🎉")
	})

	t.Run("verified login by email", func(t *testing.T) {
		env := setupAuthTest(t, true)
		require.Equal(t, http.StatusSeeOther, postForm(env.e, "/", signupValues(), false).Code)

		rec := postForm(env.e, "/login", url.Values{"username": {"asha@gmail.com"}, "password": {"s3cret@pass"}}, false)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		env := setupAuthTest(t, true)
		require.Equal(t, http.StatusSeeOther, postForm(env.e, "/", signupValues(), false).Code)

		rec := postForm(env.e, "/login", url.Values{"username": {"asha.rao"}, "password": {"wrong@pass"}}, false)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid username or password.")
		assert.Nil(t, authCookie(rec))
	})

	t.Run("unknown username", func(t *testing.T) {
		env := setupAuthTest(t, true)

		rec := postForm(env.e, "/login", url.Values{"username": {"nobody"}, "password": {"s3cret@pass"}}, false)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid username or password.")
	})

	t.Run("unverified mode only validates", func(t *testing.T) {
		env := setupAuthTest(t, false)

		rec := postForm(env.e, "/login", url.Values{"username": {"anyone"}, "password": {"whatever"}}, false)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/userdashboard", rec.Header().Get(echo.HeaderLocation))
		assert.Nil(t, authCookie(rec))
		assertFlashMessage(t, rec, "success", "Login Successful 🎉")
	})
}

func TestLogout(t *testing.T) {
	env := setupAuthTest(t, true)

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	cookie := authCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
	assertFlashMessage(t, rec, "success", "You have been logged out.")
}
