package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

var inflight singleflight.Group

// Policy describes how a loaded value is stored
type Policy[T any] struct {
	TTL  time.Duration
	Tags []string
	// TagsFor adds tags derived from the loaded value.
	TagsFor func(T) []string
	// Storable rejects values that must not be cached. Nil stores everything.
	Storable func(T) bool
}

// Remember returns the cached value at key or loads, stores and returns it.
// Cache failures are logged and fall through to load; they never fail the call.
//
// Concurrent misses on one key share a single load, which runs detached from
// any one caller's cancellation. A caller whose ctx ends stops waiting; the
// others still get the value. A value loaded across an invalidation of one of
// its tags is returned but not stored, and callers arriving after that
// invalidation start a fresh load instead of joining the old one.
func Remember[T any](ctx context.Context, c CacheLayer, key string, policy Policy[T], load func(context.Context) (T, error)) (T, error) {
	var zero T

	var cached T
	if ok, err := c.Get(ctx, key, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: get failed, recomputing")
	}

	// The version must be read before load touches any data.
	version, err := c.Version(ctx)
	versioned := err == nil
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: version read failed, result will not be stored")
		version = -1
	}

	flight := inflight.DoChan(key+"@"+strconv.FormatInt(version, 10), func() (any, error) {
		loadCtx := context.WithoutCancel(ctx)
		value, err := load(loadCtx)
		if err != nil {
			return value, err
		}
		if !versioned || (policy.Storable != nil && !policy.Storable(value)) {
			return value, nil
		}

		tags := policy.Tags
		if policy.TagsFor != nil {
			tags = append(append([]string(nil), tags...), policy.TagsFor(value)...)
		}
		stored, err := c.SetIfFresh(loadCtx, version, key, value, policy.TTL, tags...)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("key", key).Msg("cache: set failed")
		case !stored:
			log.Debug().Str("key", key).Int64("version", version).Msg("cache: invalidated during load, not stored")
		}
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
