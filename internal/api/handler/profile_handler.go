package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/launchbase/accounts-api/internal/api/metrics"
	"github.com/launchbase/accounts-api/internal/api/middleware"
	"github.com/launchbase/accounts-api/internal/core/authz"
	"github.com/launchbase/accounts-api/internal/core/domain"
	"github.com/launchbase/accounts-api/internal/core/ports"
)

type ProfileHandler struct {
	profileService ports.ProfileService
	policy         *authz.Policy
}

func NewProfileHandler(profileService ports.ProfileService, policy *authz.Policy) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, policy: policy}
}

// Get returns the caller's own profile.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  map[string]string
// @Router       /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	user := middleware.CurrentUser(c)

	profile, err := h.profileService.Get(c.Request().Context(), user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			// Authenticated but profile-less: the policy engine classifies
			// and logs the critical state.
			return h.policy.RequireProfile(user, nil, c.Path())
		}
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Update applies a partial update to the caller's profile.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.Profile
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /profile [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.ProfileUpdatesTotal.WithLabelValues("invalid").Inc()
		return err
	}

	user := middleware.CurrentUser(c)
	profile, err := h.profileService.Update(c.Request().Context(), user.ID, ports.ProfileUpdate{
		FullName: req.FullName,
		Bio:      req.Bio,
	})
	if err != nil {
		metrics.ProfileUpdatesTotal.WithLabelValues(resultLabel(err)).Inc()
		return err
	}

	metrics.ProfileUpdatesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, profile)
}

// UploadAvatar stores a new avatar for the caller, replacing any previous one.
//
// @Summary      Upload avatar
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Param        avatar  formData  file  true  "Image file (JPEG, PNG, WebP or GIF, max 2MB)"
// @Success      200     {object}  avatarResponse
// @Failure      401     {object}  map[string]string
// @Failure      422     {object}  map[string]string
// @Router       /profile/avatar [post]
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "missing avatar file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	user := middleware.CurrentUser(c)
	url, err := h.profileService.UploadAvatar(c.Request().Context(), user.ID, ports.AvatarUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     file,
	})
	if err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues(resultLabel(err)).Inc()
		return err
	}

	metrics.AvatarUploadsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, avatarResponse{AvatarURL: url})
}

// DeleteAvatar removes the caller's avatar.
//
// @Summary      Delete avatar
// @Tags         profile
// @Success      204  "avatar removed"
// @Failure      401  {object}  map[string]string
// @Router       /profile/avatar [delete]
func (h *ProfileHandler) DeleteAvatar(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if err := h.profileService.DeleteAvatar(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func resultLabel(err error) string {
	if errors.Is(err, domain.ErrValidation) {
		return "invalid"
	}
	return "error"
}
