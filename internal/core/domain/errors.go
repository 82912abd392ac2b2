package domain

import "errors"

// Sentinel errors. Services return these (optionally wrapped with %w) and the
// HTTP boundary performs a single errors.Is match to pick the user-visible
// remediation. Authorization decisions are never retried.
var (
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrProfileMissing     = errors.New("profile missing for authenticated user")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAvatarNotFound     = errors.New("avatar not found")
	ErrValidation         = errors.New("validation failed")
	ErrSessionRevoked     = errors.New("session revoked")
)

// Machine-readable codes attached to log records. The taxonomy is fixed;
// callers must not invent codes outside this set.
const (
	CodeSuccess          = "SUCCESS"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeProfileMissing   = "PROFILE_MISSING"
	CodeProfileFetch     = "PROFILE_FETCH_ERROR"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeExternalAPIError = "EXTERNAL_API_ERROR"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)

// ErrorCode classifies an error into its log code. Unclassified errors fall
// through to INTERNAL_ERROR; boundaries log that code while preserving the
// real one when already classified.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return CodeSuccess
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrSessionRevoked):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrProfileMissing):
		return CodeProfileMissing
	case errors.Is(err, ErrProfileNotFound):
		return CodeProfileFetch
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUserExists):
		return CodeValidationError
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrAvatarNotFound):
		return CodeDatabaseError
	default:
		return CodeInternalError
	}
}
