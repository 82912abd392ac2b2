package ports

import (
	"context"
	"io"
)

// Avatar is a stored avatar object opened for reading.
type Avatar struct {
	Content     io.ReadCloser
	ContentType string
}

// AvatarStorage stores one avatar object per user. Upload replaces any
// existing avatar and returns the public path the profile should reference.
type AvatarStorage interface {
	Upload(ctx context.Context, userID, ext, contentType string, content io.Reader) (string, error)
	Remove(ctx context.Context, userID string) error
	Open(ctx context.Context, userID string) (*Avatar, error)
}
