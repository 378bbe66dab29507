package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// setIfFreshScript writes an entry and indexes it under its tags unless the
// purge marker or any tag was stamped after the caller's version.
// KEYS: entry, purge marker, n tag sets, n tag stamps.
// ARGV: version, payload, ttl ms, index ttl ms.
var setIfFreshScript = redis.NewScript(`
local n = (#KEYS - 2) / 2
local version = tonumber(ARGV[1])
local function stale(key)
  local stamp = redis.call('GET', key)
  return stamp and tonumber(stamp) > version
end
if stale(KEYS[2]) then return 0 end
for i = 1, n do
  if stale(KEYS[2 + n + i]) then return 0 end
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
for i = 1, n do
  redis.call('SADD', KEYS[2 + i], KEYS[1])
  redis.call('PEXPIRE', KEYS[2 + i], ARGV[4])
end
return 1
`)

// stampScript advances the version counter and records the new value on
// every stamp key. KEYS: counter, stamps. ARGV: stamp ttl ms.
var stampScript = redis.NewScript(`
local v = redis.call('INCR', KEYS[1])
for i = 2, #KEYS do
  redis.call('SET', KEYS[i], v, 'PX', ARGV[1])
end
return v
`)

// RedisTagCache stores entries as plain redis strings and keeps one redis set
// per tag holding the keys written under it. Invalidating a tag deletes the
// members of its set, so no key enumeration is needed.
//
// Every invalidation advances a version counter and stamps the invalidated
// tags with it. SetIfFresh refuses to write an entry when any of its tags was
// stamped after the version its value was loaded at.
type RedisTagCache struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
}

func NewRedisTagCache(client *redis.Client, prefix string, retention time.Duration) *RedisTagCache {
	if retention <= 0 {
		retention = defaultTagRetention
	}
	return &RedisTagCache{client: client, prefix: prefix, retention: retention}
}

func (c *RedisTagCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := c.client.Get(ctx, c.entryKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisTagCache) Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error {
	if ttl <= 0 {
		return fmt.Errorf("cache entry %s: ttl must be positive", key)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	indexTTL := c.indexTTL(ttl)
	entryKey := c.entryKey(key)
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, entryKey, payload, ttl)
		for _, tag := range tags {
			tagKey := c.tagKey(tag)
			pipe.SAdd(ctx, tagKey, entryKey)
			pipe.Expire(ctx, tagKey, indexTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// SetIfFresh stores value like Set unless the cache was purged or one of tags
// was invalidated after version was read. It reports whether the entry was written.
func (c *RedisTagCache) SetIfFresh(ctx context.Context, version int64, key string, value any, ttl time.Duration, tags ...string) (bool, error) {
	if ttl <= 0 {
		return false, fmt.Errorf("cache entry %s: ttl must be positive", key)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	keys := make([]string, 0, 2+2*len(tags))
	keys = append(keys, c.entryKey(key), c.purgeKey())
	for _, tag := range tags {
		keys = append(keys, c.tagKey(tag))
	}
	for _, tag := range tags {
		keys = append(keys, c.stampKey(tag))
	}

	written, err := setIfFreshScript.Run(ctx, c.client, keys,
		version, payload, ttl.Milliseconds(), c.indexTTL(ttl).Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("redis conditional set failed: %w", err)
	}
	return written == 1, nil
}

// Version returns the invalidation counter. It only moves forward.
func (c *RedisTagCache) Version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis version read failed: %w", err)
	}
	return v, nil
}

func (c *RedisTagCache) InvalidateTags(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}

	// Stamp before deleting so a load racing with the delete cannot write back.
	stamps := make([]string, 0, 1+len(tags))
	stamps = append(stamps, c.versionKey())
	for _, tag := range tags {
		stamps = append(stamps, c.stampKey(tag))
	}
	if err := c.stamp(ctx, stamps...); err != nil {
		return err
	}

	for _, tag := range tags {
		if err := c.invalidateTag(ctx, tag); err != nil {
			return err
		}
	}
	return nil
}

func (c *RedisTagCache) invalidateTag(ctx context.Context, tag string) error {
	tagKey := c.tagKey(tag)
	members, err := c.client.SMembers(ctx, tagKey).Result()
	if err != nil {
		return fmt.Errorf("redis smembers %s failed: %w", tag, err)
	}
	if len(members) == 0 {
		return nil
	}

	for start := 0; start < len(members); start += scanBatchSize {
		end := start + scanBatchSize
		if end > len(members) {
			end = len(members)
		}
		batch := members[start:end]

		// Only the members read above are dropped from the index; keys
		// written concurrently stay indexed for the next flush.
		args := make([]any, len(batch))
		for i, m := range batch {
			args[i] = m
		}
		_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, batch...)
			pipe.SRem(ctx, tagKey, args...)
			return nil
		})
		if err != nil {
			return fmt.Errorf("redis invalidate %s failed: %w", tag, err)
		}
	}
	return nil
}

// Purge drops every entry and tag index under the cache prefix by scanning.
// The version counter survives so loads already in flight stay detectable.
func (c *RedisTagCache) Purge(ctx context.Context) error {
	removed, err := unlinkMatching(ctx, c.client, c.prefix+":", c.versionKey())
	if err != nil {
		return err
	}
	log.Info().Str("prefix", c.prefix).Int("keys", removed).Msg("cache: purged")
	return c.stamp(ctx, c.versionKey(), c.purgeKey())
}

func (c *RedisTagCache) Close() error {
	return c.client.Close()
}

func (c *RedisTagCache) stamp(ctx context.Context, keys ...string) error {
	if err := stampScript.Run(ctx, c.client, keys, c.retention.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("redis stamp failed: %w", err)
	}
	return nil
}

// indexTTL keeps the tag index alive at least as long as every entry it points at.
func (c *RedisTagCache) indexTTL(ttl time.Duration) time.Duration {
	if ttl > c.retention {
		return ttl
	}
	return c.retention
}

func (c *RedisTagCache) versionKey() string {
	return c.prefix + ":version"
}

func (c *RedisTagCache) purgeKey() string {
	return c.prefix + ":purged"
}

func (c *RedisTagCache) stampKey(tag string) string {
	return c.prefix + ":stamp:" + tag
}

func (c *RedisTagCache) entryKey(key string) string {
	return c.prefix + ":entry:" + key
}

func (c *RedisTagCache) tagKey(tag string) string {
	return c.prefix + ":tag:" + tag
}
