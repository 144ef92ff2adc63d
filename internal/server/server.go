package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/profiledesk/internal/config"
	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/nfrund/profiledesk/internal/handlers"
	"github.com/nfrund/profiledesk/internal/metrics"
	appmiddleware "github.com/nfrund/profiledesk/internal/middleware"
	"github.com/nfrund/profiledesk/internal/rendering"
	"github.com/nfrund/profiledesk/internal/signup"
	"github.com/nfrund/profiledesk/internal/validation"
)

// Dependencies holds everything the HTTP server needs from the rest of the
// application. Echo is optional; a new instance is created when nil.
type Dependencies struct {
	Config     config.Provider
	Identities domain.IdentityProvider
	Profiles   domain.ProfileRepository
	Signup     *signup.Service
	Echo       *echo.Echo
	// HealthChecks are reported by /health.
	HealthChecks []handlers.HealthChecker
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E   *echo.Echo
	Cfg config.Provider

	signupHandler    *handlers.SignupHandler
	loginHandler     *handlers.LoginHandler
	dashboardHandler *handlers.DashboardHandler
	identities       domain.IdentityProvider
	healthChecks     []handlers.HealthChecker
}

// New creates a Server with its middleware stack configured. Routes are
// added by RegisterRoutes.
func New(deps Dependencies) (*Server, error) {
	switch {
	case deps.Config == nil:
		return nil, errors.New("server: config is required")
	case deps.Identities == nil:
		return nil, errors.New("server: identity provider is required")
	case deps.Profiles == nil:
		return nil, errors.New("server: profile repository is required")
	case deps.Signup == nil:
		return nil, errors.New("server: signup service is required")
	}

	e := deps.Echo
	if e == nil {
		e = echo.New()
	}
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = rendering.NewUniversalRenderer()
	e.Validator = validation.New()
	setupErrorHandling(e)

	e.Use(middleware.RequestID())
	e.Use(appmiddleware.Logger)
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(metrics.HTTPMiddleware())

	store := sessions.NewCookieStore([]byte(deps.Config.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	ttl := deps.Config.GetAuthCookieTTL()
	return &Server{
		E:                e,
		Cfg:              deps.Config,
		signupHandler:    handlers.NewSignupHandler(deps.Signup, deps.Config.GetPhoneCountryCode(), ttl),
		loginHandler:     handlers.NewLoginHandler(deps.Identities, deps.Profiles, deps.Config.GetLoginVerify(), ttl),
		dashboardHandler: handlers.NewDashboardHandler(deps.Profiles),
		identities:       deps.Identities,
		healthChecks:     deps.HealthChecks,
	}, nil
}

// requestLogger writes one structured access log line per request.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger := appmiddleware.FromContext(c.Request().Context())
			attrs := []any{
				"event", "http_request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Round(time.Microsecond).Seconds() * 1000,
			}
			if v.Error != nil {
				logger.Warn("Request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.Info("Request handled", attrs...)
			return nil
		},
	})
}
