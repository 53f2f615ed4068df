package storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/vendorhub/vendorhub/internal/config"
)

type fakeStorage struct{}

func (fakeStorage) Upload(ctx context.Context, path string, r io.Reader, size int64) (*UploadResult, error) {
	return &UploadResult{Path: path}, nil
}
func (fakeStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) { return nil, nil }
func (fakeStorage) Delete(ctx context.Context, path string) error                    { return nil }
func (fakeStorage) GetURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	return "", nil
}
func (fakeStorage) Exists(ctx context.Context, path string) (bool, error) { return false, nil }
func (fakeStorage) GetMetadata(ctx context.Context, path string) (*FileMetadata, error) {
	return nil, nil
}

func TestNewStorage_RegisteredBackend(t *testing.T) {
	Register("fake", func(cfg *config.Config) (Storage, error) {
		return fakeStorage{}, nil
	})

	cfg := &config.Config{}
	cfg.Storage.DefaultBackend = "fake"

	s, err := NewStorage(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s == nil {
		t.Fatal("expected storage instance")
	}
}

func TestNewStorage_UnknownBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.DefaultBackend = "carrier-pigeon"

	_, err := NewStorage(cfg)
	if err == nil {
		t.Error("expected error for unknown backend")
	}
}
