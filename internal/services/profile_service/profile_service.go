package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/lib/logger/sl"
	"pg_wallpaper/internal/repository"
	"pg_wallpaper/internal/storage"
	filestorage "pg_wallpaper/internal/storage/filestorage"

	"github.com/google/uuid"
)

const avatarsDir = "avatars"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidAvatar   = errors.New("invalid avatar file")
	ErrAvatarTooLarge  = errors.New("avatar file too large")
)

type ProfileService struct {
	log         *slog.Logger
	repo        repository.ProfileRepository
	fileStorage filestorage.FileStorage
	now         func() time.Time
}

func NewProfileService(log *slog.Logger, repo repository.ProfileRepository, fileStorage filestorage.FileStorage) *ProfileService {
	return &ProfileService{
		log:         log,
		repo:        repo,
		fileStorage: fileStorage,
		now:         time.Now,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	const op = "profile_service.Get"

	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			return models.Profile{}, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
		}
		s.log.Error("failed to get profile", slog.String("op", op), sl.Err(err))
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// UpdateFullName sets the display name. An empty name clears it.
func (s *ProfileService) UpdateFullName(ctx context.Context, userID uuid.UUID, fullName string) (models.Profile, error) {
	const op = "profile_service.UpdateFullName"

	fullName = strings.TrimSpace(fullName)

	p, err := s.repo.UpdateProfile(ctx, userID, &fullName, nil)
	if err != nil {
		if errors.Is(err, storage.ErrProfileNotFound) {
			return models.Profile{}, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
		}
		s.log.Error("failed to update profile", slog.String("op", op), sl.Err(err))
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// UploadAvatar stores the image as avatars/{userId}-{unix}.{ext} and points the profile at it.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (models.Profile, error) {
	const op = "profile_service.UploadAvatar"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	log.Info("upload avatar")

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		return models.Profile{}, fmt.Errorf("%s: %w", op, ErrInvalidAvatar)
	}

	key := fmt.Sprintf("%s/%s-%d%s", avatarsDir, userID.String(), s.now().Unix(), ext)

	size, err := s.fileStorage.Save(ctx, file, key)
	if err != nil {
		log.Error("failed to save file", sl.Err(err))

		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			return models.Profile{}, fmt.Errorf("%s: %w", op, ErrAvatarTooLarge)
		case errors.Is(err, storage.ErrInvalidFileType):
			return models.Profile{}, fmt.Errorf("%s: %w", op, ErrInvalidAvatar)
		}
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	url := s.fileStorage.PublicURL(key)

	p, err := s.repo.UpdateProfile(ctx, userID, nil, &url)
	if err != nil {
		// Удаляем файл если не удалось сохранить в БД
		_ = s.fileStorage.Delete(ctx, key)
		log.Error("failed to save avatar url", sl.Err(err))

		if errors.Is(err, storage.ErrProfileNotFound) {
			return models.Profile{}, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
		}
		return models.Profile{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("avatar uploaded", slog.String("key", key), slog.Int64("size", size))

	return p, nil
}
