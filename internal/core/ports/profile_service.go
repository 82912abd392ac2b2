package ports

import (
	"context"
	"io"

	"github.com/launchbase/accounts-api/internal/core/domain"
)

// AvatarUpload is a caller-supplied avatar file pending validation.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ProfileService manages the caller's own profile plus the admin-only
// profile listing.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, update ProfileUpdate) (*domain.Profile, error)
	UploadAvatar(ctx context.Context, userID string, upload AvatarUpload) (string, error)
	DeleteAvatar(ctx context.Context, userID string) error
	List(ctx context.Context) ([]domain.Profile, error)
}
