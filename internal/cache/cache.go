package cache

import (
	"context"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/config"
)

// CacheLayer is a tag-scoped key/value cache. Values are JSON encoded.
type CacheLayer interface {
	// Get decodes the value stored at key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value under key for ttl and indexes the key under every tag.
	Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error
	// InvalidateTags removes every entry indexed under any of the tags.
	InvalidateTags(ctx context.Context, tags ...string) error
	// Version returns a counter that advances on every invalidation.
	Version(ctx context.Context) (int64, error)
	// SetIfFresh stores value unless one of its tags was invalidated after
	// version was read, and reports whether it was stored.
	SetIfFresh(ctx context.Context, version int64, key string, value any, ttl time.Duration, tags ...string) (bool, error)
	Close() error
}

// NewCacheLayer returns the redis-backed cache when caching is enabled and a
// noop cache otherwise.
func NewCacheLayer(cfg config.CacheConfig) (CacheLayer, error) {
	if !cfg.Enabled {
		return NewNoopCache(), nil
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	retention := time.Duration(cfg.TagIndexRetentionSeconds) * time.Second
	return NewRedisTagCache(client, cfg.KeyPrefix, retention), nil
}

type noopCache struct{}

func NewNoopCache() CacheLayer {
	return &noopCache{}
}

func (n *noopCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	return false, nil
}

func (n *noopCache) Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error {
	return nil
}

func (n *noopCache) InvalidateTags(ctx context.Context, tags ...string) error {
	return nil
}

func (n *noopCache) Version(ctx context.Context) (int64, error) {
	return 0, nil
}

func (n *noopCache) SetIfFresh(ctx context.Context, version int64, key string, value any, ttl time.Duration, tags ...string) (bool, error) {
	return true, nil
}

func (n *noopCache) Close() error {
	return nil
}
