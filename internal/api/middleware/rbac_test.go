package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/launchbase/accounts-api/internal/core/authz"
	"github.com/launchbase/accounts-api/internal/core/domain"
	"github.com/launchbase/accounts-api/pkg/logger"
)

func testPolicy() *authz.Policy {
	return authz.NewPolicy(logger.NewAudit(zerolog.New(io.Discard), "test"))
}

func newTestContext(t *testing.T, path string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return c
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequireAuth_Allows(t *testing.T) {
	c := newTestContext(t, "/profile")
	c.Set(ctxUserKey, &domain.User{ID: "u-1"})

	called := false
	handler := RequireAuth(testPolicy())(func(c echo.Context) error {
		called = true
		return okHandler(c)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRequireAuth_DeniesAnonymous(t *testing.T) {
	c := newTestContext(t, "/profile")

	handler := RequireAuth(testPolicy())(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	c := newTestContext(t, "/admin/users")
	c.Set(ctxUserKey, &domain.User{ID: "u-1"})
	c.Set(ctxProfileKey, &domain.Profile{ID: "u-1", Role: domain.RoleAdmin})

	called := false
	handler := RequireAdmin(testPolicy())(func(c echo.Context) error {
		called = true
		return okHandler(c)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRequireAdmin_DeniesNonAdmin(t *testing.T) {
	c := newTestContext(t, "/admin/users")
	c.Set(ctxUserKey, &domain.User{ID: "u-1"})
	c.Set(ctxProfileKey, &domain.Profile{ID: "u-1", Role: domain.RoleUser})

	handler := RequireAdmin(testPolicy())(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

// An anonymous request to an admin-gated route fails the auth check first
// and never reaches the admin check.
func TestAdminGate_UnauthorizedBeforeForbidden(t *testing.T) {
	c := newTestContext(t, "/admin/users")
	policy := testPolicy()

	chain := RequireAuth(policy)(RequireAdmin(policy)(func(c echo.Context) error {
		t.Fatalf("should not reach handler")
		return nil
	}))

	err := chain(c)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("admin check leaked ahead of auth check")
	}
}
