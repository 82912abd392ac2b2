package ports

import (
	"context"

	"github.com/launchbase/accounts-api/internal/core/domain"
)

// Session is the result of a successful sign-in or token authentication.
type Session struct {
	Token   string
	User    *domain.User
	Profile *domain.Profile
}

// AuthService is the identity provider boundary: sign-up, sign-in, sign-out
// and current-user resolution, keyed by email+password.
type AuthService interface {
	SignUp(ctx context.Context, email, password, fullName string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*Session, error)
}
