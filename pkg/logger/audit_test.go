package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestAudit(env string) (*Audit, *bytes.Buffer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	buf := &bytes.Buffer{}
	base := zerolog.New(buf).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return NewAudit(base, env), buf
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON record %q: %v", buf.String(), err)
	}
	return rec
}

func TestAudit_RecordShape(t *testing.T) {
	audit, buf := newTestAudit("development")

	audit.Warn("authz.RequireAuth", "unauthorized access attempt", "UNAUTHORIZED", map[string]any{"path": "/admin"}, nil)

	rec := decodeRecord(t, buf)
	want := map[string]string{
		"level":       "warn",
		"source":      "authz.RequireAuth",
		"message":     "unauthorized access attempt",
		"code":        "UNAUTHORIZED",
		"environment": "development",
	}
	for field, v := range want {
		if rec[field] != v {
			t.Fatalf("%s = %v, want %q", field, rec[field], v)
		}
	}
	ctx, ok := rec["context"].(map[string]any)
	if !ok || ctx["path"] != "/admin" {
		t.Fatalf("context = %v, want path=/admin", rec["context"])
	}
}

func TestAudit_TimestampRoundTrips(t *testing.T) {
	audit, buf := newTestAudit("development")

	audit.Info("test", "timestamp check", "SUCCESS", nil)

	rec := decodeRecord(t, buf)
	raw, ok := rec["time"].(string)
	if !ok {
		t.Fatalf("missing time field: %v", rec)
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		t.Fatalf("timestamp %q not RFC3339: %v", raw, err)
	}
	if got := parsed.Format(time.RFC3339Nano); got != raw {
		t.Fatalf("timestamp round-trip mismatch: %q != %q", got, raw)
	}
}

func TestAudit_DebugSuppressedInProduction(t *testing.T) {
	audit, buf := newTestAudit(EnvProduction)

	audit.Debug("test", "should not emit", "SUCCESS", nil)
	if buf.Len() != 0 {
		t.Fatalf("debug emitted in production: %s", buf.String())
	}

	// All other levels still emit in production.
	audit.Warn("test", "still emits", "UNAUTHORIZED", nil, nil)
	if buf.Len() == 0 {
		t.Fatalf("warn suppressed in production")
	}
}

func TestAudit_DebugEmitsOutsideProduction(t *testing.T) {
	for _, env := range []string{"development", "staging", "test", ""} {
		audit, buf := newTestAudit(env)
		audit.Debug("test", "emits", "SUCCESS", nil)
		if buf.Len() == 0 {
			t.Fatalf("debug suppressed in env %q", env)
		}
	}
}

func TestAudit_EmptyContextOmitted(t *testing.T) {
	audit, buf := newTestAudit("development")

	audit.Info("test", "no context", "SUCCESS", map[string]any{})

	rec := decodeRecord(t, buf)
	if _, present := rec["context"]; present {
		t.Fatalf("empty context should be omitted, got %v", rec["context"])
	}
}

func TestAudit_ContextSanitizedOnEmit(t *testing.T) {
	audit, buf := newTestAudit("development")
	ctx := map[string]any{"password": "hunter2", "email": "a@b.c"}

	audit.Error("test", "login failed", "DATABASE_ERROR", ctx, nil)

	rec := decodeRecord(t, buf)
	emitted := rec["context"].(map[string]any)
	if emitted["password"] != Redacted {
		t.Fatalf("password leaked: %v", emitted["password"])
	}
	if emitted["email"] != "a@b.c" {
		t.Fatalf("email = %v", emitted["email"])
	}
	if ctx["password"] != "hunter2" {
		t.Fatalf("caller's context mutated")
	}
}

type tracedError struct{ trace string }

func (e *tracedError) Error() string      { return "traced failure" }
func (e *tracedError) StackTrace() string { return e.trace }

func TestAudit_FaultFields(t *testing.T) {
	audit, buf := newTestAudit("development")

	audit.Error("test", "plain fault", "INTERNAL_ERROR", nil, errors.New("boom"))
	rec := decodeRecord(t, buf)
	if rec["errorName"] != "*errors.errorString" {
		t.Fatalf("errorName = %v", rec["errorName"])
	}
	if rec["error"] != "boom" {
		t.Fatalf("error = %v, want boom", rec["error"])
	}
	if _, present := rec["stack"]; present {
		t.Fatalf("plain error should carry no stack")
	}

	buf.Reset()
	audit.Error("test", "traced fault", "INTERNAL_ERROR", nil, &tracedError{trace: "frame0\nframe1"})
	rec = decodeRecord(t, buf)
	if rec["stack"] != "frame0\nframe1" {
		t.Fatalf("stack = %v", rec["stack"])
	}
}

func TestAudit_NoFaultOmitsFields(t *testing.T) {
	audit, buf := newTestAudit("development")

	audit.Warn("test", "no fault", "FORBIDDEN", nil, nil)

	rec := decodeRecord(t, buf)
	if _, present := rec["errorName"]; present {
		t.Fatalf("errorName should be absent without a fault")
	}
	if _, present := rec["stack"]; present {
		t.Fatalf("stack should be absent without a fault")
	}
}
