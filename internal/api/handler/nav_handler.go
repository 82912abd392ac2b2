package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/launchbase/accounts-api/internal/api/middleware"
	"github.com/launchbase/accounts-api/internal/core/authz"
)

// NavHandler serves the navigation links visible to the caller's role. The
// link set is injected configuration; the handler never mutates it.
type NavHandler struct {
	nav authz.Navigation
}

func NewNavHandler(nav authz.Navigation) *NavHandler {
	return &NavHandler{nav: nav}
}

// Links returns the role-filtered navigation. Public: no authentication
// required; anonymous callers get the public subset.
//
// @Summary      Visible navigation links
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  navigationResponse
// @Router       /navigation [get]
func (h *NavHandler) Links(c echo.Context) error {
	role := middleware.CurrentRole(c)
	return c.JSON(http.StatusOK, navigationResponse{
		Role:  role,
		Links: h.nav.VisibleLinks(role),
	})
}
