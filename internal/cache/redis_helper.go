package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/AdilAzhari/POS-SuperMarket-sub000/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	scanBatchSize       = 100
	defaultTagRetention = 24 * time.Hour
	redisPingTimeout    = 5 * time.Second
)

func newRedisClient(cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s failed: %w", opts.Addr, err)
	}

	return client, nil
}

// redisOptions prefers REDIS_URL. A password or db set separately fills in
// what the url leaves out.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL == "" {
		return &redis.Options{
			Addr:     net.JoinHostPort(orDefault(cfg.RedisHost, "127.0.0.1"), orDefault(cfg.RedisPort, "6379")),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if opts.Password == "" {
		opts.Password = cfg.RedisPassword
	}
	if opts.DB == 0 {
		opts.DB = cfg.RedisDB
	}
	return opts, nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// unlinkMatching removes every key under prefix except those in keep. It is
// the administrative fallback used when the tag index itself is suspect.
func unlinkMatching(ctx context.Context, client *redis.Client, prefix string, keep ...string) (int, error) {
	skip := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		skip[k] = struct{}{}
	}

	removed := 0
	batch := make([]string, 0, scanBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := client.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis unlink failed: %w", err)
		}
		removed += len(batch)
		batch = batch[:0]
		return nil
	}

	iter := client.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		if _, ok := skip[iter.Val()]; ok {
			continue
		}
		batch = append(batch, iter.Val())
		if len(batch) == scanBatchSize {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan failed: %w", err)
	}
	return removed, flush()
}
