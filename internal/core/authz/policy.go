// Package authz is the authorization policy engine: it computes a caller's
// access role from a (user, profile) pair and enforces access preconditions.
//
// Checks are deliberately split into single-purpose functions so call sites
// enforce exactly the precondition they need and produce distinct failure
// codes. Admin-gated resources run RequireAuth before RequireAdmin, so an
// anonymous caller always sees UNAUTHORIZED and never learns whether a role
// would have been sufficient.
package authz

import (
	"github.com/launchbase/accounts-api/internal/core/domain"
	"github.com/launchbase/accounts-api/pkg/logger"
)

// Policy enforces access preconditions. Failed checks are logged through the
// audit logger at the point of decision and returned as sentinel errors;
// callers map them to a redirect or an error response. Checks are local,
// synchronous and deterministic; a denial is never retried.
type Policy struct {
	log *logger.Audit
}

func NewPolicy(log *logger.Audit) *Policy {
	return &Policy{log: log}
}

// UserRole computes the effective access role. Total function: an absent
// user or absent profile yields public, an admin profile yields admin,
// anything else yields authenticated. Note the asymmetry with RequireAuth:
// the role depends on having a profile, authentication does not.
func UserRole(user *domain.User, profile *domain.Profile) domain.AccessRole {
	if user == nil || profile == nil {
		return domain.AccessPublic
	}
	if profile.Role == domain.RoleAdmin {
		return domain.AccessAdmin
	}
	return domain.AccessAuthenticated
}

// RequireAuth fails with ErrUnauthorized when no user is present. Callers
// treat the failure as "redirect to login, preserving the requested path".
func (p *Policy) RequireAuth(user *domain.User, source string) error {
	if user == nil {
		p.log.Warn(source, "unauthorized access attempt", domain.CodeUnauthorized, nil, nil)
		return domain.ErrUnauthorized
	}
	return nil
}

// RequireAdmin fails with ErrForbidden unless the profile carries the admin
// role. It does not check user presence; call it only after RequireAuth has
// already succeeded.
func (p *Policy) RequireAdmin(profile *domain.Profile, source string) error {
	if !profile.IsAdmin() {
		var actual any
		if profile != nil {
			actual = profile.Role
		}
		p.log.Warn(source, "forbidden access attempt, admin required", domain.CodeForbidden, map[string]any{
			"profileRole": actual,
		}, nil)
		return domain.ErrForbidden
	}
	return nil
}

// RequireProfile fails with ErrProfileMissing when an authenticated user has
// no profile. That state is a critical account inconsistency, not a normal
// not-found: callers must force sign-out.
func (p *Policy) RequireProfile(user *domain.User, profile *domain.Profile, source string) error {
	if user != nil && profile == nil {
		p.log.Error(source, "authenticated user has no profile", domain.CodeProfileMissing, map[string]any{
			"userId": user.ID,
		}, nil)
		return domain.ErrProfileMissing
	}
	return nil
}
