package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/nfrund/profiledesk/internal/view"
)

const (
	// IdentityContextKey is where Auth stores the *domain.Identity.
	IdentityContextKey = "identity"
	// AuthCookieName holds the session token issued by the identity backend.
	AuthCookieName = "auth_token"
	loginPath      = "/login"

	sessionExpiredMessage = "Your session has expired. Please log in again."
)

// Auth creates a middleware that protects routes that require authentication.
// The token in the auth cookie is refreshed against the identity backend on
// every request; an invalid token clears the cookie, leaves an error flash
// and redirects to login.
func Auth(identities domain.IdentityProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				return view.Redirect(c, loginPath)
			}

			identity, err := identities.Refresh(c.Request().Context(), cookie.Value)
			if err != nil || identity == nil {
				FromContext(c.Request().Context()).Info("Rejected session token",
					"event", "auth_token_rejected", "error", err)
				ClearAuthCookie(c)
				view.SetFlashError(c, sessionExpiredMessage)
				return view.Redirect(c, loginPath)
			}

			c.Set(IdentityContextKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	identity, ok := c.Get(IdentityContextKey).(*domain.Identity)
	return identity, ok && identity != nil
}

// SetAuthCookie stores token in the auth cookie for ttl.
func SetAuthCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().UTC().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		// Secure only when served over TLS so local development keeps working.
		Secure:   c.Request().TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie expires the auth cookie.
func ClearAuthCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
