package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/launchbase/accounts-api/internal/core/ports"
)

// AvatarHandler serves stored avatar objects. Avatars are public once
// uploaded; the profile references them by URL.
type AvatarHandler struct {
	avatars ports.AvatarStorage
}

func NewAvatarHandler(avatars ports.AvatarStorage) *AvatarHandler {
	return &AvatarHandler{avatars: avatars}
}

// Serve streams the avatar for the given user id.
//
// @Summary      Serve an avatar image
// @Tags         profile
// @Produce      image/jpeg
// @Param        id  path  string  true  "User id"
// @Success      200  "image bytes"
// @Failure      404  {object}  map[string]string
// @Router       /avatars/{id} [get]
func (h *AvatarHandler) Serve(c echo.Context) error {
	avatar, err := h.avatars.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	defer avatar.Content.Close()

	return c.Stream(http.StatusOK, avatar.ContentType, avatar.Content)
}
