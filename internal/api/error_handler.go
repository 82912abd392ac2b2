package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/launchbase/accounts-api/internal/api/middleware"
	"github.com/launchbase/accounts-api/internal/core/domain"
	"github.com/launchbase/accounts-api/internal/core/ports"
	"github.com/launchbase/accounts-api/pkg/logger"
)

// Post-denial destinations for browser clients.
const (
	loginPath  = "/login"
	deniedPath = "/denied"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewHTTPErrorHandler returns the single boundary that converts typed
// failures into user-visible remediation:
//   - Browser requests (Accept: text/html) denied with UNAUTHORIZED are
//     redirected to the login page with the requested path preserved for the
//     post-login return; FORBIDDEN redirects to a generic denied page.
//   - API requests get the JSON envelope with the matching status code.
//   - PROFILE_MISSING is a critical account state: the caller's session is
//     revoked and the session cookie expired before the 409 is written, so
//     the broken credential cannot keep coming back.
//   - Unanticipated faults are logged with their classified code (or
//     INTERNAL_ERROR) and surfaced as a generic, non-leaking message.
func NewHTTPErrorHandler(auth ports.AuthService, log *logger.Audit) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrProfileMissing) {
			forceSignOut(c, auth)
		}

		if wantsHTML(c) {
			switch {
			case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrSessionRevoked):
				_ = c.Redirect(http.StatusFound, loginRedirect(c))
				return
			case errors.Is(err, domain.ErrForbidden):
				_ = c.Redirect(http.StatusFound, deniedPath)
				return
			}
		}

		status, msg, code := resolveError(err, log, c)
		_ = c.JSON(status, errorResponse{Error: msg, Code: code})
	}
}

// forceSignOut revokes the caller's session token and expires the browser
// cookie. Revocation failures are swallowed; the cookie is expired either
// way and the token dies at its natural expiry.
func forceSignOut(c echo.Context, auth ports.AuthService) {
	if token := middleware.ExtractToken(c); token != "" {
		_ = auth.SignOut(c.Request().Context(), token)
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// loginRedirect preserves the originally requested path (query included) so
// the login page can return the user to it.
func loginRedirect(c echo.Context) string {
	target := c.Request().URL.Path
	if q := c.Request().URL.RawQuery; q != "" {
		target += "?" + q
	}
	return loginPath + "?redirect=" + url.QueryEscape(target)
}

func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get("Accept"), echo.MIMETextHTML)
}

func resolveError(err error, log *logger.Audit, c echo.Context) (int, string, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), ""
	}

	// Known domain errors → deterministic status codes and stable machine
	// codes. Messages are fixed strings; internals never leak.
	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrSessionRevoked):
		return http.StatusUnauthorized, "authentication required", domain.CodeUnauthorized
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", domain.CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", domain.CodeForbidden
	case errors.Is(err, domain.ErrProfileMissing):
		return http.StatusConflict, "account setup incomplete, contact support", domain.CodeProfileMissing
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists", domain.CodeValidationError
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", domain.CodeDatabaseError
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "profile not found", domain.CodeProfileFetch
	case errors.Is(err, domain.ErrAvatarNotFound):
		return http.StatusNotFound, "avatar not found", domain.CodeDatabaseError
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error(), domain.CodeValidationError
	}

	// Unexpected fault: log the real cause with its classified code (falls
	// through to INTERNAL_ERROR), return a generic message.
	log.Error(c.Path(), "unhandled error", domain.ErrorCode(err), map[string]any{
		"method": c.Request().Method,
		"path":   c.Request().URL.Path,
	}, err)

	return http.StatusInternalServerError, "internal server error", domain.CodeInternalError
}
