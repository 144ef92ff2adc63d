package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/profiledesk/internal/domain"
	"github.com/nfrund/profiledesk/internal/middleware"
	"github.com/nfrund/profiledesk/internal/view"
	"github.com/nfrund/profiledesk/internal/view/dto/dashboard"
	"github.com/nfrund/profiledesk/web/src/templates/layouts"
	"github.com/nfrund/profiledesk/web/src/templates/pages"
)

// DashboardHandler handles requests for the user dashboard.
type DashboardHandler struct {
	profiles domain.ProfileRepository
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(profiles domain.ProfileRepository) *DashboardHandler {
	return &DashboardHandler{profiles: profiles}
}

// Get renders the profile of the identity placed in the context by the Auth
// middleware.
func (h *DashboardHandler) Get(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return view.Redirect(c, loginPath)
	}

	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)
	flashes := view.GetFlashData(c)
	status := http.StatusOK

	profile, err := h.profiles.GetByUID(ctx, identity.UID)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		logger.Warn("No profile for authenticated identity", "event", "profile_missing", "uid", identity.UID)
	case err != nil:
		logger.Error("Failed to load profile", "event", "profile_load_failed", "uid", identity.UID, "error", err)
		flashes.Error = append(flashes.Error, domain.FallbackMessage)
		status = http.StatusInternalServerError
	}

	return c.Render(status, "", layouts.Base("Dashboard", flashes, pages.Dashboard(dashboard.FromProfile(profile))))
}
