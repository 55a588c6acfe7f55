package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

const (
	maxPhotoSize = 10 << 20
	urlTTL       = 15 * time.Minute
)

var (
	ErrValidation    = errors.New("validation error")
	ErrTooLarge      = errors.New("photo is too large")
	ErrBadContent    = errors.New("unsupported content type")
	ErrPhotoNotFound = errors.New("photo not found")
)

var allowedContentTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

type Storage interface {
	PutPhoto(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type PhotoStore interface {
	Save(ctx context.Context, userID int64, objectKey string) error
	GetKey(ctx context.Context, userID int64) (string, error)
	GetKeys(ctx context.Context, userIDs []int64) (map[int64]string, error)
}

type Service struct {
	storage       Storage
	store         PhotoStore
	storeNotFound error
	newKey        func(userID int64, ext string) string
}

func NewService(storage Storage, store PhotoStore, storeNotFound error) *Service {
	return &Service{
		storage:       storage,
		store:         store,
		storeNotFound: storeNotFound,
		newKey: func(userID int64, ext string) string {
			return fmt.Sprintf("photos/%d/%s.%s", userID, uuid.NewString(), ext)
		},
	}
}

// Upload stores the photo object and records its key as the user's current
// photo. The previous object, if any, is removed best effort.
func (s *Service) Upload(ctx context.Context, userID int64, body io.Reader, size int64, contentType string) (string, error) {
	if userID <= 0 || body == nil || size <= 0 {
		return "", ErrValidation
	}
	if size > maxPhotoSize {
		return "", ErrTooLarge
	}
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", ErrBadContent
	}
	if s.storage == nil || s.store == nil {
		return "", fmt.Errorf("photo dependencies are not configured")
	}

	oldKey, err := s.store.GetKey(ctx, userID)
	if err != nil && (s.storeNotFound == nil || !errors.Is(err, s.storeNotFound)) {
		return "", fmt.Errorf("get current photo key: %w", err)
	}

	key := s.newKey(userID, ext)
	if err := s.storage.PutPhoto(ctx, key, body, size, contentType); err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	if err := s.store.Save(ctx, userID, key); err != nil {
		return "", fmt.Errorf("save photo key: %w", err)
	}

	if oldKey != "" && oldKey != key {
		_ = s.storage.Delete(ctx, oldKey)
	}

	return key, nil
}

func (s *Service) SignedURL(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", ErrValidation
	}
	if s.storage == nil || s.store == nil {
		return "", fmt.Errorf("photo dependencies are not configured")
	}

	key, err := s.store.GetKey(ctx, userID)
	if err != nil {
		if s.storeNotFound != nil && errors.Is(err, s.storeNotFound) {
			return "", ErrPhotoNotFound
		}
		return "", fmt.Errorf("get photo key: %w", err)
	}

	signed, err := s.storage.PresignGet(ctx, key, urlTTL)
	if err != nil {
		return "", fmt.Errorf("presign photo url: %w", err)
	}

	return signed, nil
}

// SignedURLs resolves photo URLs for a batch of users. Users without a
// photo are left out of the result.
func (s *Service) SignedURLs(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	if len(userIDs) == 0 {
		return map[int64]string{}, nil
	}
	if s.storage == nil || s.store == nil {
		return nil, fmt.Errorf("photo dependencies are not configured")
	}

	keys, err := s.store.GetKeys(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("get photo keys: %w", err)
	}

	urls := make(map[int64]string, len(keys))
	for userID, key := range keys {
		signed, err := s.storage.PresignGet(ctx, key, urlTTL)
		if err != nil {
			return nil, fmt.Errorf("presign photo url for user %d: %w", userID, err)
		}
		urls[userID] = signed
	}

	return urls, nil
}
