package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, CodeSuccess},
		{"unauthorized", ErrUnauthorized, CodeUnauthorized},
		{"bad credentials", ErrInvalidCredentials, CodeUnauthorized},
		{"revoked session", ErrSessionRevoked, CodeUnauthorized},
		{"forbidden", ErrForbidden, CodeForbidden},
		{"profile missing", ErrProfileMissing, CodeProfileMissing},
		{"profile not found", ErrProfileNotFound, CodeProfileFetch},
		{"validation", fmt.Errorf("%w: bio too long", ErrValidation), CodeValidationError},
		{"duplicate user", ErrUserExists, CodeValidationError},
		{"unknown", errors.New("disk full"), CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.want {
				t.Fatalf("ErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorCode_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("checking token: %w", ErrSessionRevoked)
	if got := ErrorCode(err); got != CodeUnauthorized {
		t.Fatalf("ErrorCode() = %q, want %q", got, CodeUnauthorized)
	}
}
