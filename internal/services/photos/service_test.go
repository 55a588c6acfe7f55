package photos_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/nvoropaev/fitmatch/backend/internal/services/photos"
)

var errStubNoPhoto = errors.New("stub photo not found")

type stubStorage struct {
	objects map[string][]byte
	deleted []string
}

func newStubStorage() *stubStorage {
	return &stubStorage{objects: map[string][]byte{}}
}

func (s *stubStorage) PutPhoto(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *stubStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, ok := s.objects[key]; !ok {
		return "", errors.New("object missing")
	}
	return "https://s3.local/" + key + "?sig=test", nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

type stubPhotoStore struct {
	keys map[int64]string
}

func newStubPhotoStore() *stubPhotoStore {
	return &stubPhotoStore{keys: map[int64]string{}}
}

func (s *stubPhotoStore) Save(_ context.Context, userID int64, objectKey string) error {
	s.keys[userID] = objectKey
	return nil
}

func (s *stubPhotoStore) GetKey(_ context.Context, userID int64) (string, error) {
	key, ok := s.keys[userID]
	if !ok {
		return "", errStubNoPhoto
	}
	return key, nil
}

func (s *stubPhotoStore) GetKeys(_ context.Context, userIDs []int64) (map[int64]string, error) {
	out := map[int64]string{}
	for _, id := range userIDs {
		if key, ok := s.keys[id]; ok {
			out[id] = key
		}
	}
	return out, nil
}

func TestUploadReplacesPreviousPhoto(t *testing.T) {
	storage := newStubStorage()
	store := newStubPhotoStore()
	svc := photos.NewService(storage, store, errStubNoPhoto)
	ctx := context.Background()

	first, err := svc.Upload(ctx, 1, bytes.NewReader([]byte("one")), 3, "image/jpeg")
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}

	second, err := svc.Upload(ctx, 1, bytes.NewReader([]byte("two")), 3, "image/png")
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	if first == second {
		t.Fatal("expected a fresh object key per upload")
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != first {
		t.Fatalf("old object not deleted: %v", storage.deleted)
	}
	if store.keys[1] != second {
		t.Fatalf("stored key = %q, want %q", store.keys[1], second)
	}
	if !strings.HasPrefix(second, "photos/1/") || !strings.HasSuffix(second, ".png") {
		t.Fatalf("unexpected key shape: %q", second)
	}
}

func TestUploadRejectsBadInput(t *testing.T) {
	svc := photos.NewService(newStubStorage(), newStubPhotoStore(), errStubNoPhoto)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, 1, bytes.NewReader([]byte("x")), 1, "text/plain"); !errors.Is(err, photos.ErrBadContent) {
		t.Fatalf("expected bad content error, got %v", err)
	}
	if _, err := svc.Upload(ctx, 1, bytes.NewReader(nil), 20<<20, "image/jpeg"); !errors.Is(err, photos.ErrTooLarge) {
		t.Fatalf("expected too large error, got %v", err)
	}
}

func TestSignedURLMapsMissingPhoto(t *testing.T) {
	svc := photos.NewService(newStubStorage(), newStubPhotoStore(), errStubNoPhoto)

	if _, err := svc.SignedURL(context.Background(), 5); !errors.Is(err, photos.ErrPhotoNotFound) {
		t.Fatalf("expected photo not found, got %v", err)
	}
}

func TestSignedURLsSkipsUsersWithoutPhotos(t *testing.T) {
	storage := newStubStorage()
	store := newStubPhotoStore()
	svc := photos.NewService(storage, store, errStubNoPhoto)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, 1, bytes.NewReader([]byte("one")), 3, "image/jpeg"); err != nil {
		t.Fatalf("upload: %v", err)
	}

	urls, err := svc.SignedURLs(ctx, []int64{1, 2})
	if err != nil {
		t.Fatalf("signed urls: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("expected one url, got %v", urls)
	}
	if !strings.Contains(urls[1], "photos/1/") {
		t.Fatalf("unexpected url: %q", urls[1])
	}
}
