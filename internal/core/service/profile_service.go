package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/launchbase/accounts-api/internal/core/domain"
	"github.com/launchbase/accounts-api/internal/core/ports"
	"github.com/launchbase/accounts-api/pkg/logger"
)

// maxAvatarBytes caps uploads at 2 MiB.
const maxAvatarBytes = 2 * 1024 * 1024

// avatarExtensions maps the accepted avatar content types to the stored
// file extension.
var avatarExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// ProfileService manages profile fields and the avatar object. All failures
// are classified and logged here; the HTTP layer only maps them.
type ProfileService struct {
	profiles ports.ProfileRepository
	avatars  ports.AvatarStorage
	log      *logger.Audit
}

func NewProfileService(profiles ports.ProfileRepository, avatars ports.AvatarStorage, log *logger.Audit) *ProfileService {
	return &ProfileService{profiles: profiles, avatars: avatars, log: log}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			s.log.Error("service.profile.Get", "profile fetch failed", domain.CodeProfileFetch,
				map[string]any{"userId": userID}, err)
		}
		return nil, err
	}
	return profile, nil
}

// Update applies a partial profile mutation after validating field lengths.
func (s *ProfileService) Update(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.Profile, error) {
	const source = "service.profile.Update"

	if update.FullName != nil && utf8.RuneCountInString(*update.FullName) > domain.MaxFullNameLen {
		s.log.Warn(source, "profile name validation failed", domain.CodeValidationError,
			map[string]any{"userId": userID, "nameLength": utf8.RuneCountInString(*update.FullName)}, nil)
		return nil, fmt.Errorf("%w: name must be %d characters or less", domain.ErrValidation, domain.MaxFullNameLen)
	}
	if update.Bio != nil && utf8.RuneCountInString(*update.Bio) > domain.MaxBioLen {
		s.log.Warn(source, "profile bio validation failed", domain.CodeValidationError,
			map[string]any{"userId": userID, "bioLength": utf8.RuneCountInString(*update.Bio)}, nil)
		return nil, fmt.Errorf("%w: bio must be %d characters or less", domain.ErrValidation, domain.MaxBioLen)
	}

	profile, err := s.profiles.Update(ctx, userID, update)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		s.log.Error(source, "failed to update profile", domain.CodeDatabaseError,
			map[string]any{"userId": userID}, err)
		return nil, err
	}

	s.log.Info(source, "profile updated", domain.CodeSuccess, map[string]any{"userId": userID})
	return profile, nil
}

// UploadAvatar validates the file, replaces any previous avatar object and
// records the new public path on the profile.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, upload ports.AvatarUpload) (string, error) {
	const source = "service.profile.UploadAvatar"

	if upload.Content == nil || upload.Size == 0 {
		return "", fmt.Errorf("%w: no file provided", domain.ErrValidation)
	}

	ext, ok := avatarExtensions[upload.ContentType]
	if !ok {
		s.log.Warn(source, "invalid avatar file type", domain.CodeValidationError,
			map[string]any{"userId": userID, "fileType": upload.ContentType}, nil)
		return "", fmt.Errorf("%w: invalid file type, upload a JPEG, PNG, WebP, or GIF", domain.ErrValidation)
	}

	if upload.Size > maxAvatarBytes {
		s.log.Warn(source, "avatar file too large", domain.CodeValidationError,
			map[string]any{"userId": userID, "fileSize": upload.Size, "maxSize": maxAvatarBytes}, nil)
		return "", fmt.Errorf("%w: file too large, maximum size is 2MB", domain.ErrValidation)
	}

	// Replace any previous object; a missing one is the common first-upload case.
	if err := s.avatars.Remove(ctx, userID); err != nil && !errors.Is(err, domain.ErrAvatarNotFound) {
		s.log.Error(source, "failed to delete previous avatar", domain.CodeExternalAPIError,
			map[string]any{"userId": userID}, err)
		return "", fmt.Errorf("remove previous avatar: %w", err)
	}

	url, err := s.avatars.Upload(ctx, userID, ext, upload.ContentType, upload.Content)
	if err != nil {
		s.log.Error(source, "avatar upload failed", domain.CodeExternalAPIError,
			map[string]any{"userId": userID}, err)
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	if err := s.profiles.SetAvatarURL(ctx, userID, &url); err != nil {
		s.log.Error(source, "failed to record avatar url", domain.CodeDatabaseError,
			map[string]any{"userId": userID}, err)
		return "", err
	}

	s.log.Info(source, "avatar uploaded", domain.CodeSuccess, map[string]any{"userId": userID})
	return url, nil
}

// DeleteAvatar removes the stored object and clears the profile reference.
func (s *ProfileService) DeleteAvatar(ctx context.Context, userID string) error {
	const source = "service.profile.DeleteAvatar"

	if err := s.avatars.Remove(ctx, userID); err != nil && !errors.Is(err, domain.ErrAvatarNotFound) {
		s.log.Error(source, "failed to delete avatar", domain.CodeExternalAPIError,
			map[string]any{"userId": userID}, err)
		return fmt.Errorf("remove avatar: %w", err)
	}

	if err := s.profiles.SetAvatarURL(ctx, userID, nil); err != nil {
		s.log.Error(source, "failed to clear avatar url", domain.CodeDatabaseError,
			map[string]any{"userId": userID}, err)
		return err
	}

	s.log.Info(source, "avatar deleted", domain.CodeSuccess, map[string]any{"userId": userID})
	return nil
}

// List returns every profile. Admin-gated at the HTTP layer.
func (s *ProfileService) List(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		s.log.Error("service.profile.List", "profile listing failed", domain.CodeDatabaseError, nil, err)
		return nil, err
	}
	return profiles, nil
}
