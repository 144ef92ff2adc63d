package server

import (
	"github.com/labstack/echo/v4"
	"github.com/nfrund/profiledesk/internal/handlers"
	"github.com/nfrund/profiledesk/internal/metrics"
	appmiddleware "github.com/nfrund/profiledesk/internal/middleware"
	"github.com/nfrund/profiledesk/web"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	rateLimiter := appmiddleware.RateLimiter()

	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	s.E.GET("/", s.signupHandler.Get)
	s.E.POST("/", s.signupHandler.Post, rateLimiter)

	s.E.GET("/login", s.loginHandler.Get)
	s.E.POST("/login", s.loginHandler.Post, rateLimiter)
	s.E.GET("/logout", s.loginHandler.Logout)

	s.E.GET("/userdashboard", s.dashboardHandler.Get, appmiddleware.Auth(s.identities))

	s.E.GET("/health", handlers.Health(s.healthChecks...))
	s.E.GET("/metrics", metrics.Handler())
}
