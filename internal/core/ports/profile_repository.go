package ports

import (
	"context"

	"github.com/launchbase/accounts-api/internal/core/domain"
)

// ProfileUpdate carries a partial profile mutation. Nil fields are left
// unchanged; a pointer to the empty string clears the field to null.
type ProfileUpdate struct {
	FullName *string
	Bio      *string
}

// ProfileRepository provides point lookups and updates of profiles keyed by
// user id. The policy engine never talks to it directly; callers fetch the
// profile and pass it in.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, id string, update ProfileUpdate) (*domain.Profile, error)
	SetAvatarURL(ctx context.Context, id string, avatarURL *string) error
	List(ctx context.Context) ([]domain.Profile, error)
}
