package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/launchbase/accounts-api/internal/core/authz"
	"github.com/launchbase/accounts-api/internal/core/domain"
	"github.com/launchbase/accounts-api/internal/core/ports"
)

// SessionCookie carries the session token for browser clients. API clients
// use the Authorization bearer header instead.
const SessionCookie = "session"

// Echo context keys populated by Session.
const (
	ctxUserKey    = "auth.user"
	ctxProfileKey = "auth.profile"
	ctxRoleKey    = "auth.role"
)

// Session resolves the caller's token (bearer header or session cookie) and
// stashes user, profile and computed role in the request context. Requests
// without a token, or with an invalid/revoked one, proceed as anonymous:
// role gating is the job of RequireAuth/RequireAdmin, not of this
// middleware. Infrastructure faults and the critical PROFILE_MISSING state
// do propagate.
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return next(c)
			}

			sess, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrSessionRevoked) {
					return next(c)
				}
				return err
			}

			c.Set(ctxUserKey, sess.User)
			c.Set(ctxProfileKey, sess.Profile)
			c.Set(ctxRoleKey, authz.UserRole(sess.User, sess.Profile))
			return next(c)
		}
	}
}

// ExtractToken returns the caller's session token from the Authorization
// bearer header, falling back to the session cookie. Empty when the request
// carries neither.
func ExtractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// CurrentUser returns the authenticated user, or nil for anonymous callers.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(ctxUserKey).(*domain.User)
	return user
}

// CurrentProfile returns the caller's profile, or nil.
func CurrentProfile(c echo.Context) *domain.Profile {
	profile, _ := c.Get(ctxProfileKey).(*domain.Profile)
	return profile
}

// CurrentRole returns the caller's computed access role; anonymous callers
// are public.
func CurrentRole(c echo.Context) domain.AccessRole {
	if role, ok := c.Get(ctxRoleKey).(domain.AccessRole); ok {
		return role
	}
	return domain.AccessPublic
}
