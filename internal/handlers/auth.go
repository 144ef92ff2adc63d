package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/nfrund/profiledesk/internal/metrics"
	"github.com/nfrund/profiledesk/internal/middleware"
	"github.com/nfrund/profiledesk/internal/signup"
	"github.com/nfrund/profiledesk/internal/validation"
	"github.com/nfrund/profiledesk/internal/view"
	"github.com/nfrund/profiledesk/internal/view/dto/auth"
	"github.com/nfrund/profiledesk/web/src/templates/layouts"
	"github.com/nfrund/profiledesk/web/src/templates/pages"
	"github.com/nfrund/profiledesk/web/src/templates/partials"
)

const (
	signupSuccessMessage = "Signup Successful 🎉"
	loginSuccessMessage  = "Login Successful 🎉"
	logoutMessage        = "You have been logged out."

	dashboardPath = "/userdashboard"
	loginPath     = "/login"
)

// SignupHandler serves the signup screen at "/".
type SignupHandler struct {
	service     *signup.Service
	countryCode string
	cookieTTL   time.Duration
}

// NewSignupHandler creates a new SignupHandler.
func NewSignupHandler(service *signup.Service, countryCode string, cookieTTL time.Duration) *SignupHandler {
	return &SignupHandler{service: service, countryCode: countryCode, cookieTTL: cookieTTL}
}

// Get renders the empty signup form.
func (h *SignupHandler) Get(c echo.Context) error {
	data := auth.SignupData{CountryCode: h.countryCode}
	return h.render(c, http.StatusOK, view.GetFlashData(c), data)
}

// Post validates the form and runs the signup sequence. Invalid input and
// backend failures re-render the form; success sets the session cookie and
// sends the browser to the login page.
func (h *SignupHandler) Post(c echo.Context) error {
	var form validation.SignupForm
	fieldErrs, err := bindForm(c, &form)
	if err != nil {
		return err
	}

	data := auth.SignupData{
		Name:        form.Name,
		Username:    form.Username,
		Email:       form.Email,
		Phone:       form.Phone,
		CountryCode: h.countryCode,
		Errors:      fieldErrs,
	}
	if !fieldErrs.Empty() {
		return h.render(c, http.StatusUnprocessableEntity, partials.FlashData{}, data)
	}

	ctx := c.Request().Context()
	result, err := h.service.Register(ctx, form)
	if err != nil {
		status := http.StatusUnprocessableEntity
		var authErr *domain.AuthError
		if !errors.As(err, &authErr) {
			status = http.StatusInternalServerError
			middleware.FromContext(ctx).Error("Signup failed", "event", "signup_failed", "email", form.Email, "error", err)
		}
		flashes := partials.FlashData{Error: []string{domain.MessageFor(err)}}
		return h.render(c, status, flashes, data)
	}

	middleware.SetAuthCookie(c, result.Identity.Token, h.cookieTTL)
	view.SetFlashSuccess(c, signupSuccessMessage)
	return view.Redirect(c, result.Redirect)
}

func (h *SignupHandler) render(c echo.Context, status int, flashes partials.FlashData, data auth.SignupData) error {
	return c.Render(status, "", layouts.Base("Sign Up", flashes, pages.Signup(data)))
}

// LoginHandler serves the login screen and logout.
type LoginHandler struct {
	identities domain.IdentityProvider
	profiles   domain.ProfileRepository
	// verify signs the user in against the identity backend. When false the
	// form is only validated and the session from signup is kept.
	verify    bool
	cookieTTL time.Duration
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(identities domain.IdentityProvider, profiles domain.ProfileRepository, verify bool, cookieTTL time.Duration) *LoginHandler {
	return &LoginHandler{identities: identities, profiles: profiles, verify: verify, cookieTTL: cookieTTL}
}

// Get renders the login form.
func (h *LoginHandler) Get(c echo.Context) error {
	return h.render(c, http.StatusOK, view.GetFlashData(c), auth.LoginData{})
}

// Post validates the form, optionally signs in, and redirects to the dashboard.
func (h *LoginHandler) Post(c echo.Context) error {
	var form validation.LoginForm
	fieldErrs, err := bindForm(c, &form)
	if err != nil {
		return err
	}

	data := auth.LoginData{Username: form.Username, Errors: fieldErrs}
	if !fieldErrs.Empty() {
		return h.render(c, http.StatusUnprocessableEntity, partials.FlashData{}, data)
	}

	if h.verify {
		identity, err := h.signIn(c, form)
		metrics.RecordLogin(err)
		if err != nil {
			status := http.StatusUnprocessableEntity
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				status = http.StatusInternalServerError
			}
			middleware.FromContext(c.Request().Context()).Warn("Failed login attempt",
				"event", "login_failed", "username", form.Username, "error", err)
			flashes := partials.FlashData{Error: []string{domain.MessageFor(err)}}
			return h.render(c, status, flashes, data)
		}
		middleware.SetAuthCookie(c, identity.Token, h.cookieTTL)
	}

	view.SetFlashSuccess(c, loginSuccessMessage)
	return view.Redirect(c, dashboardPath)
}

// signIn resolves the username to an account email and signs in with it.
// A value containing "@" is used as the email directly.
func (h *LoginHandler) signIn(c echo.Context, form validation.LoginForm) (*domain.Identity, error) {
	ctx := c.Request().Context()

	email := form.Username
	if !strings.Contains(email, "@") {
		profile, err := h.profiles.FindByUsername(ctx, form.Username)
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		if err != nil {
			return nil, err
		}
		email = profile.Email
	}

	return h.identities.SignIn(ctx, email, form.Password)
}

// Logout clears the session cookie and returns to the login page.
func (h *LoginHandler) Logout(c echo.Context) error {
	middleware.ClearAuthCookie(c)
	view.SetFlashSuccess(c, logoutMessage)
	return view.Redirect(c, loginPath)
}

func (h *LoginHandler) render(c echo.Context, status int, flashes partials.FlashData, data auth.LoginData) error {
	return c.Render(status, "", layouts.Base("Login", flashes, pages.Login(data)))
}
