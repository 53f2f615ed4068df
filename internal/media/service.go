// Package media sits between the HTTP handlers and the storage backend. It
// generates collision-free object keys for uploads, resolves asset URLs back
// to storage keys, and implements the compensating-action sequence used when a
// record with attachments is deleted: attempt asset removal, log and continue
// on failure, then let the caller delete the record. Asset removal failures
// never block a record mutation; they are reported back to the caller instead.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/vendorhub/vendorhub/internal/storage"
	"github.com/vendorhub/vendorhub/internal/telemetry"
	"github.com/vendorhub/vendorhub/pkg/objectkey"
)

// Folder roots for uploaded media. KeyFromURL relies on these to locate the
// storage key inside a backend-specific URL.
var folderRoots = []string{"vendors", "products", "banners", "categories", "certificates", "posts"}

// Asset is the result of a successful upload
type Asset struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// AssetError reports a failed best-effort asset removal
type AssetError struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// Service wraps a storage backend with upload and removal semantics for media
type Service struct {
	store  storage.Storage
	urlTTL time.Duration
	logger *slog.Logger
}

// NewService creates a media service over the given storage backend
func NewService(store storage.Storage, urlTTL time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, urlTTL: urlTTL, logger: logger}
}

// Upload stores the file under a fresh collision-free key inside folder and
// returns the key and a fetchable URL. Repeated uploads of the same filename
// always produce distinct keys, so an upload can never overwrite an existing
// asset.
func (s *Service) Upload(ctx context.Context, folder, filename string, reader io.Reader, size int64) (*Asset, error) {
	key := objectkey.New(folder, filename)

	if _, err := s.store.Upload(ctx, key, reader, size); err != nil {
		return nil, fmt.Errorf("failed to store media: %w", err)
	}

	assetURL, err := s.store.GetURL(ctx, key, s.urlTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to build asset URL: %w", err)
	}

	telemetry.MediaUploadsTotal.WithLabelValues(folder).Inc()

	return &Asset{Key: key, URL: assetURL}, nil
}

// Remove deletes the asset behind assetURL. A missing asset is not an error.
func (s *Service) Remove(ctx context.Context, assetURL string) error {
	key, err := KeyFromURL(assetURL)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, key)
}

// RemoveAll removes each asset, logging and continuing on failure. The
// returned slice holds one entry per failed removal and is empty when every
// removal succeeded. Callers deleting a record run this first and proceed
// with the record delete regardless of the outcome.
func (s *Service) RemoveAll(ctx context.Context, assetURLs []string) []AssetError {
	assetErrs := make([]AssetError, 0)
	for _, u := range assetURLs {
		if u == "" {
			continue
		}
		if err := s.Remove(ctx, u); err != nil {
			s.logger.Warn("asset removal failed, continuing", "url", u, "error", err)
			assetErrs = append(assetErrs, AssetError{URL: u, Error: err.Error()})
		}
	}
	return assetErrs
}

// KeyFromURL extracts the storage key from an asset URL. Keys always start
// with a known folder root, which makes them findable regardless of the
// backend-specific prefix (serving path, bucket, container, CDN host) and any
// signing query parameters.
func KeyFromURL(assetURL string) (string, error) {
	parsed, err := url.Parse(assetURL)
	if err != nil {
		return "", fmt.Errorf("invalid asset URL %q: %w", assetURL, err)
	}

	segments := strings.Split(strings.TrimPrefix(parsed.Path, "/"), "/")
	for i, seg := range segments {
		for _, root := range folderRoots {
			if seg == root && i < len(segments)-1 {
				return strings.Join(segments[i:], "/"), nil
			}
		}
	}

	return "", fmt.Errorf("no storage key found in asset URL %q", assetURL)
}
