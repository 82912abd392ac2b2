package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/launchbase/accounts-api/internal/api/middleware"
	"github.com/launchbase/accounts-api/internal/core/authz"
	"github.com/launchbase/accounts-api/internal/core/domain"
	"github.com/launchbase/accounts-api/internal/core/ports"
	"github.com/launchbase/accounts-api/pkg/logger"
)

type profileServiceStub struct {
	profile *domain.Profile
	getErr  error
}

func (s *profileServiceStub) Get(context.Context, string) (*domain.Profile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.profile, nil
}

func (s *profileServiceStub) Update(context.Context, string, ports.ProfileUpdate) (*domain.Profile, error) {
	return s.profile, nil
}

func (s *profileServiceStub) UploadAvatar(context.Context, string, ports.AvatarUpload) (string, error) {
	return "", errors.New("not implemented")
}

func (s *profileServiceStub) DeleteAvatar(context.Context, string) error { return nil }

func (s *profileServiceStub) List(context.Context) ([]domain.Profile, error) { return nil, nil }

// An authenticated caller whose profile row is gone gets the critical
// PROFILE_MISSING classification, logged by the policy engine at the point
// of the check.
func TestProfileHandler_Get_MissingProfileIsCritical(t *testing.T) {
	buf := &bytes.Buffer{}
	policy := authz.NewPolicy(logger.NewAudit(zerolog.New(buf), "test"))
	h := NewProfileHandler(&profileServiceStub{getErr: domain.ErrProfileNotFound}, policy)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/profile")

	chain := middleware.Session(&navAuthStub{role: domain.RoleUser})(h.Get)
	err := chain(c)

	if !errors.Is(err, domain.ErrProfileMissing) {
		t.Fatalf("err = %v, want ErrProfileMissing", err)
	}

	var record map[string]any
	if jerr := json.Unmarshal(buf.Bytes(), &record); jerr != nil {
		t.Fatalf("invalid log record %q: %v", buf.String(), jerr)
	}
	if record["code"] != domain.CodeProfileMissing {
		t.Fatalf("logged code = %v, want PROFILE_MISSING", record["code"])
	}
	if record["source"] != "/profile" {
		t.Fatalf("logged source = %v, want /profile", record["source"])
	}
	if record["level"] != "error" {
		t.Fatalf("logged level = %v, want error", record["level"])
	}
}
