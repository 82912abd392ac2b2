package authz

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/launchbase/accounts-api/internal/core/domain"
	"github.com/launchbase/accounts-api/pkg/logger"
)

func newTestPolicy() (*Policy, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	base := zerolog.New(buf).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return NewPolicy(logger.NewAudit(base, "test")), buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid log record %q: %v", buf.String(), err)
	}
	return rec
}

func adminProfile() *domain.Profile {
	return &domain.Profile{ID: "u-1", Email: "a@example.com", Role: domain.RoleAdmin}
}

func userProfile() *domain.Profile {
	return &domain.Profile{ID: "u-2", Email: "b@example.com", Role: domain.RoleUser}
}

func TestUserRole(t *testing.T) {
	user := &domain.User{ID: "u-1"}

	tests := []struct {
		name    string
		user    *domain.User
		profile *domain.Profile
		want    domain.AccessRole
	}{
		{"no user no profile", nil, nil, domain.AccessPublic},
		{"no user with profile", nil, adminProfile(), domain.AccessPublic},
		{"user without profile", user, nil, domain.AccessPublic},
		{"user with admin profile", user, adminProfile(), domain.AccessAdmin},
		{"user with plain profile", user, userProfile(), domain.AccessAuthenticated},
		{"user with roleless profile", user, &domain.Profile{ID: "u-3"}, domain.AccessAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserRole(tt.user, tt.profile); got != tt.want {
				t.Fatalf("UserRole = %q, want %q", got, tt.want)
			}
		})
	}
}

// The role depends on having a profile, requireAuth does not: a present user
// with no profile passes the auth check yet still computes as public.
func TestAuthProfileAsymmetry(t *testing.T) {
	policy, _ := newTestPolicy()
	user := &domain.User{ID: "u-1"}

	if err := policy.RequireAuth(user, "test"); err != nil {
		t.Fatalf("RequireAuth with user: %v", err)
	}
	if got := UserRole(user, nil); got != domain.AccessPublic {
		t.Fatalf("UserRole(user, nil) = %q, want public", got)
	}
}

func TestRequireAuth_Anonymous(t *testing.T) {
	policy, buf := newTestPolicy()

	err := policy.RequireAuth(nil, "handler.AdminUsers")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	rec := lastRecord(t, buf)
	if rec["code"] != domain.CodeUnauthorized {
		t.Fatalf("logged code = %v, want UNAUTHORIZED", rec["code"])
	}
	if rec["source"] != "handler.AdminUsers" {
		t.Fatalf("logged source = %v", rec["source"])
	}
	if rec["level"] != "warn" {
		t.Fatalf("logged level = %v, want warn", rec["level"])
	}
}

func TestRequireAuth_Present(t *testing.T) {
	policy, buf := newTestPolicy()

	if err := policy.RequireAuth(&domain.User{ID: "u-1"}, "test"); err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("successful check must not log, got %s", buf.String())
	}
}

func TestRequireAdmin_Admin(t *testing.T) {
	policy, buf := newTestPolicy()

	if err := policy.RequireAdmin(adminProfile(), "test"); err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("successful check must not log, got %s", buf.String())
	}
}

func TestRequireAdmin_NonAdmin(t *testing.T) {
	policy, buf := newTestPolicy()

	err := policy.RequireAdmin(userProfile(), "test")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	rec := lastRecord(t, buf)
	if rec["code"] != domain.CodeForbidden {
		t.Fatalf("logged code = %v, want FORBIDDEN", rec["code"])
	}
	ctx := rec["context"].(map[string]any)
	if ctx["profileRole"] != domain.RoleUser {
		t.Fatalf("profileRole = %v, want %q", ctx["profileRole"], domain.RoleUser)
	}
}

func TestRequireAdmin_NilProfile(t *testing.T) {
	policy, buf := newTestPolicy()

	err := policy.RequireAdmin(nil, "test")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	rec := lastRecord(t, buf)
	ctx := rec["context"].(map[string]any)
	if v, present := ctx["profileRole"]; !present || v != nil {
		t.Fatalf("profileRole = %v (present=%v), want null", v, present)
	}
}

func TestRequireProfile(t *testing.T) {
	policy, buf := newTestPolicy()
	user := &domain.User{ID: "u-1"}

	if err := policy.RequireProfile(user, userProfile(), "test"); err != nil {
		t.Fatalf("user with profile: %v", err)
	}
	if err := policy.RequireProfile(nil, nil, "test"); err != nil {
		t.Fatalf("anonymous caller: %v", err)
	}

	err := policy.RequireProfile(user, nil, "test")
	if !errors.Is(err, domain.ErrProfileMissing) {
		t.Fatalf("err = %v, want ErrProfileMissing", err)
	}
	rec := lastRecord(t, buf)
	if rec["code"] != domain.CodeProfileMissing {
		t.Fatalf("logged code = %v, want PROFILE_MISSING", rec["code"])
	}
	if rec["level"] != "error" {
		t.Fatalf("logged level = %v, want error", rec["level"])
	}
}
