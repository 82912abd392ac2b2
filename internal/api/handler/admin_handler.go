package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/launchbase/accounts-api/internal/core/ports"
)

// AdminHandler serves admin-only views. Routes are gated by the
// RequireAuth → RequireAdmin middleware chain; handlers assume both checks
// already passed.
type AdminHandler struct {
	profileService ports.ProfileService
}

func NewAdminHandler(profileService ports.ProfileService) *AdminHandler {
	return &AdminHandler{profileService: profileService}
}

// ListUsers returns every profile for the user-management view.
//
// @Summary      List all user profiles
// @Tags         admin
// @Produce      json
// @Success      200  {object}  listProfilesResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	profiles, err := h.profileService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listProfilesResponse{Profiles: profiles, Total: len(profiles)})
}
