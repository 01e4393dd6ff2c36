package cache

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "cvrp:solution:"

// RedisSolutionCache stores solutions as JSON strings with an expiry.
type RedisSolutionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSolutionCache(rdb *redis.Client, ttl time.Duration) *RedisSolutionCache {
	return &RedisSolutionCache{rdb: rdb, ttl: ttl}
}

// Connect to the Redis server at url (redis://host:port/db) and verify it answers.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("dial redis: parse url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("dial redis: ping: %w", err)
	}

	return rdb, nil
}

func (r *RedisSolutionCache) Get(ctx context.Context, key string) (_ *domain.Solution, _ bool, err error) {
	defer obs.Time(ctx, "solution.cache.redis.Get")(&err)

	if r.rdb == nil {
		return nil, false, errors.New("solution cache: redis client is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errors.New("get solution cache: key must not be empty")
	}

	b, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get solution cache: %w", err)
	}

	sol, err := decodeSolution(b)
	if err != nil {
		return nil, false, fmt.Errorf("get solution cache: %w", err)
	}

	return sol, true, nil
}

func (r *RedisSolutionCache) Put(ctx context.Context, key string, sol *domain.Solution) (err error) {
	defer obs.Time(ctx, "solution.cache.redis.Put")(&err)

	if r.rdb == nil {
		return errors.New("solution cache: redis client is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert solution cache: key must not be empty")
	}

	payload, err := encodeSolution(sol)
	if err != nil {
		return fmt.Errorf("insert solution cache: %w", err)
	}

	// A zero ttl stores the key without expiry.
	if err := r.rdb.Set(ctx, redisKeyPrefix+key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("insert solution cache key=%q: %w", key, err)
	}

	return nil
}
