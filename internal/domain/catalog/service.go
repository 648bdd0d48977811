package catalog

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"spanco/internal/assets"
	"spanco/internal/cache"

	"go.uber.org/zap"
)

// Assets is the slice of the asset store the catalog needs.
type Assets interface {
	Upload(ctx context.Context, folder assets.Folder, file io.Reader, filename string) (assets.Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// Upload is an image file received with a write request.
type Upload struct {
	File     io.Reader
	Filename string
}

// Service applies the hierarchy integrity rules and the asset lifecycle on top of a Store.
// Multi-step operations are separate round trips; the store's unique indexes are the final word.
type Service struct {
	store  Store
	assets Assets
	cache  cache.Cache
	logger *zap.SugaredLogger

	// generation is part of every listing cache key and moves on each invalidation,
	// so a page read before a write can only land under a key no longer consulted.
	generation atomic.Uint64
}

func NewService(store Store, assets Assets, c cache.Cache, logger *zap.SugaredLogger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{store: store, assets: assets, cache: c, logger: logger}
}

// asNotFound replaces a store-level not-found error with an entity-specific message.
func asNotFound(err error, entity, format string, args ...any) error {
	if errors.Is(err, ErrNotFound) {
		return NotFound(entity, format, args...)
	}
	return err
}

// isNotFound reports whether a lookup came back empty, as opposed to failing.
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func checkName(kind, name string, max int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Invalid("%s validation failed: Name is required", kind)
	}
	if utf8.RuneCountInString(name) > max {
		return "", Invalid("%s validation failed: Name is longer than the maximum allowed length (%d)", kind, max)
	}
	return name, nil
}

// invalidateProducts drops cached listings; product pages embed category names.
func (s *Service) invalidateProducts(ctx context.Context) {
	s.generation.Add(1)
	if err := s.cache.DeletePrefix(ctx, productCachePrefix); err != nil {
		s.logger.Warnw("product cache invalidation failed", "error", err)
	}
}

// discardAsset removes a freshly uploaded asset whose entity write failed.
func (s *Service) discardAsset(publicID string) {
	if publicID == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), QueryTimeoutDuration)
		defer cancel()
		if err := s.assets.Destroy(ctx, publicID); err != nil {
			s.logger.Errorw("asset cleanup failed", "public_id", publicID, "error", err)
		}
	}()
}
