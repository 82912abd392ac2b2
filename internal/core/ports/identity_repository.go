package ports

import (
	"context"

	"github.com/launchbase/accounts-api/internal/core/domain"
)

// IdentityRepository persists user identities (credentials included).
type IdentityRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
