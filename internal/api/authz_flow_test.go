package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	apimw "github.com/launchbase/accounts-api/internal/api/middleware"
	"github.com/launchbase/accounts-api/internal/core/authz"
	"github.com/launchbase/accounts-api/internal/core/domain"
	"github.com/launchbase/accounts-api/internal/core/ports"
)

// flowAuth resolves fixed tokens to canned sessions so the full
// middleware chain can be exercised without a token backend. Tokens in
// orphaned belong to identities whose profile row is gone.
type flowAuth struct {
	sessions  map[string]*ports.Session
	orphaned  map[string]bool
	signedOut []string
}

func (f *flowAuth) SignUp(context.Context, string, string, string) (*domain.User, error) {
	return nil, domain.ErrUserExists
}

func (f *flowAuth) SignIn(context.Context, string, string) (*ports.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

func (f *flowAuth) SignOut(_ context.Context, token string) error {
	f.signedOut = append(f.signedOut, token)
	return nil
}

func (f *flowAuth) Authenticate(_ context.Context, token string) (*ports.Session, error) {
	if f.orphaned[token] {
		return nil, domain.ErrProfileMissing
	}
	if sess, ok := f.sessions[token]; ok {
		return sess, nil
	}
	return nil, domain.ErrUnauthorized
}

func flowSession(role string) *ports.Session {
	now := time.Now()
	return &ports.Session{
		User:    &domain.User{ID: role + "-id", Email: role + "@example.com", CreatedAt: now},
		Profile: &domain.Profile{ID: role + "-id", Email: role + "@example.com", Role: role, CreatedAt: now, UpdatedAt: now},
	}
}

func newFlowServer(t *testing.T) (*echo.Echo, *flowAuth) {
	t.Helper()

	audit := discardAudit()
	policy := authz.NewPolicy(audit)
	auth := &flowAuth{
		sessions: map[string]*ports.Session{
			"admin-token": flowSession(domain.RoleAdmin),
			"user-token":  flowSession(domain.RoleUser),
		},
		orphaned: map[string]bool{"orphan-token": true},
	}

	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(auth, audit)
	e.Use(apimw.Session(auth))

	admin := e.Group("/admin", apimw.RequireAuth(policy), apimw.RequireAdmin(policy))
	admin.GET("/users", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return e, auth
}

func adminRequest(e *echo.Echo, decorate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// An anonymous caller on an admin route must always be told it is not
// authenticated, never that its role is insufficient.
func TestFlow_AnonymousHitsUnauthorizedNeverForbidden(t *testing.T) {
	e, _ := newFlowServer(t)

	rec := adminRequest(e, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != domain.CodeUnauthorized {
		t.Fatalf("code = %q, want UNAUTHORIZED", body.Code)
	}
}

func TestFlow_AnonymousBrowserRedirectsToLogin(t *testing.T) {
	e, _ := newFlowServer(t)

	rec := adminRequest(e, asHTML)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	want := "/login?redirect=%2Fadmin%2Fusers"
	if got := rec.Header().Get(echo.HeaderLocation); got != want {
		t.Fatalf("location = %q, want %q", got, want)
	}
}

func TestFlow_NonAdminIsForbidden(t *testing.T) {
	e, _ := newFlowServer(t)

	rec := adminRequest(e, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer user-token")
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != domain.CodeForbidden {
		t.Fatalf("code = %q, want FORBIDDEN", body.Code)
	}
}

// A signed-in non-admin browser lands on the denied page, not back on
// login: re-authenticating would not change the outcome.
func TestFlow_NonAdminBrowserRedirectsToDenied(t *testing.T) {
	e, _ := newFlowServer(t)

	rec := adminRequest(e, func(r *http.Request) {
		asHTML(r)
		r.AddCookie(&http.Cookie{Name: apimw.SessionCookie, Value: "user-token"})
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != deniedPath {
		t.Fatalf("location = %q, want %q", got, deniedPath)
	}
}

func TestFlow_AdminPasses(t *testing.T) {
	e, _ := newFlowServer(t)

	rec := adminRequest(e, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer admin-token")
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

// A live session whose profile row disappeared is forcibly signed out:
// the token is revoked, the browser cookie expired, and the caller told
// the account is in a broken state. Without the revocation the credential
// would keep looping on the same failure.
func TestFlow_ProfileMissingForcesSignOut(t *testing.T) {
	e, auth := newFlowServer(t)

	rec := adminRequest(e, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: apimw.SessionCookie, Value: "orphan-token"})
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != domain.CodeProfileMissing {
		t.Fatalf("code = %q, want PROFILE_MISSING", body.Code)
	}

	if len(auth.signedOut) != 1 || auth.signedOut[0] != "orphan-token" {
		t.Fatalf("signed out tokens = %v, want [orphan-token]", auth.signedOut)
	}

	expired := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == apimw.SessionCookie && cookie.Value == "" && cookie.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Fatalf("session cookie not expired, cookies = %v", rec.Result().Cookies())
	}
}

// Tokens the backend rejects degrade to anonymous, so the caller gets
// the recoverable UNAUTHORIZED outcome instead of a hard failure.
func TestFlow_InvalidTokenDegradesToAnonymous(t *testing.T) {
	e, _ := newFlowServer(t)

	rec := adminRequest(e, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer expired-token")
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
