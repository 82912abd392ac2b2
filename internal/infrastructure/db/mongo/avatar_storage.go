package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/launchbase/accounts-api/internal/core/domain"
	"github.com/launchbase/accounts-api/internal/core/ports"
)

const avatarBucket = "avatars"

// AvatarStorage keeps avatar objects in a GridFS bucket, one object per
// user, filed under the user id. Upload callers are expected to remove the
// previous object first (the service does).
//
// The gridfs stream API takes no context; a caller deadline is forwarded
// through the bucket's read/write deadlines instead.
type AvatarStorage struct {
	bucket *gridfs.Bucket
}

func NewAvatarStorage(db *mongo.Database) *AvatarStorage {
	// NewBucket only fails on a nil database.
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(avatarBucket))
	if err != nil {
		panic(fmt.Sprintf("gridfs bucket: %v", err))
	}
	return &AvatarStorage{bucket: bucket}
}

func (s *AvatarStorage) Upload(ctx context.Context, userID, ext, contentType string, content io.Reader) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(deadline); err != nil {
			return "", fmt.Errorf("gridfs deadline: %w", err)
		}
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{
		{Key: "contentType", Value: contentType},
		{Key: "ext", Value: ext},
	})

	if _, err := s.bucket.UploadFromStream(userID, content, opts); err != nil {
		return "", fmt.Errorf("gridfs upload: %w", err)
	}
	return avatarURL(userID), nil
}

func (s *AvatarStorage) Remove(ctx context.Context, userID string) error {
	cursor, err := s.bucket.FindContext(ctx, bson.M{"filename": userID})
	if err != nil {
		return fmt.Errorf("gridfs find: %w", err)
	}
	defer cursor.Close(ctx)

	found := false
	for cursor.Next(ctx) {
		var file struct {
			ID interface{} `bson:"_id"`
		}
		if err := cursor.Decode(&file); err != nil {
			return fmt.Errorf("gridfs decode: %w", err)
		}
		if err := s.bucket.DeleteContext(ctx, file.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("gridfs delete: %w", err)
		}
		found = true
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("gridfs find: %w", err)
	}
	if !found {
		return domain.ErrAvatarNotFound
	}
	return nil
}

func (s *AvatarStorage) Open(ctx context.Context, userID string) (*ports.Avatar, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(deadline); err != nil {
			return nil, fmt.Errorf("gridfs deadline: %w", err)
		}
	}

	stream, err := s.bucket.OpenDownloadStreamByName(userID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrAvatarNotFound
		}
		return nil, fmt.Errorf("gridfs open: %w", err)
	}

	contentType := "application/octet-stream"
	if file := stream.GetFile(); file != nil && file.Metadata != nil {
		if v, lerr := file.Metadata.LookupErr("contentType"); lerr == nil {
			if ct, ok := v.StringValueOK(); ok {
				contentType = ct
			}
		}
	}

	return &ports.Avatar{Content: stream, ContentType: contentType}, nil
}

// avatarURL is the public path the profile references for a stored avatar.
func avatarURL(userID string) string {
	return "/avatars/" + userID
}
