package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/launchbase/accounts-api/internal/api/metrics"
	"github.com/launchbase/accounts-api/internal/core/authz"
	"github.com/launchbase/accounts-api/internal/core/domain"
)

// RequireAuth gates a route on caller authentication. Denials are decided
// and logged by the policy engine; this wrapper only feeds it the request
// context and propagates the typed failure to the error handler.
func RequireAuth(policy *authz.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := policy.RequireAuth(CurrentUser(c), c.Path()); err != nil {
				metrics.AuthzDenialsTotal.WithLabelValues(domain.CodeUnauthorized).Inc()
				return err
			}
			return next(c)
		}
	}
}

// RequireAdmin gates a route on the admin role. Chain it after RequireAuth:
// admin-gated routes must reveal "not logged in" before "not admin", so an
// anonymous caller never learns a role would have been insufficient.
func RequireAdmin(policy *authz.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := policy.RequireAdmin(CurrentProfile(c), c.Path()); err != nil {
				metrics.AuthzDenialsTotal.WithLabelValues(domain.CodeForbidden).Inc()
				return err
			}
			return next(c)
		}
	}
}
