package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	redis "github.com/redis/go-redis/v9"
)

const distanceKeyPrefix = "distance:"

type redisDistance struct {
	Miles float64 `json:"miles"`
	Hours float64 `json:"hours"`
}

// RedisDistanceCache keeps origin->destination results in Redis with a TTL.
type RedisDistanceCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisClient connects using a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// NewRedisDistanceCache wraps rdb. A zero ttl keeps entries forever.
func NewRedisDistanceCache(rdb redis.Cmdable, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{rdb: rdb, ttl: ttl}
}

func distanceKey(origin, destination string) string {
	return distanceKeyPrefix + origin + "|" + destination
}

func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.redis.GetMany")(&err)

	if origin == "" {
		return nil, errors.New("get redis distance cache: origin must not be empty")
	}

	uniq, _ := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	keys := make([]string, len(uniq))
	for i, d := range uniq {
		keys[i] = distanceKey(origin, d)
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get redis distance cache: mget: %w", err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var d redisDistance
		if err := json.Unmarshal([]byte(s), &d); err != nil {
			// A corrupt entry is treated as a miss and overwritten later.
			continue
		}
		out[uniq[i]] = ports.DistanceResult{Miles: d.Miles, Hours: d.Hours}
	}

	return out, nil
}

func (c *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if origin == "" {
		return errors.New("insert redis distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	pipe := c.rdb.Pipeline()
	for dest, r := range results {
		if dest == "" {
			return errors.New("insert redis distance cache: empty destination key")
		}
		payload, err := json.Marshal(redisDistance{Miles: r.Miles, Hours: r.Hours})
		if err != nil {
			return fmt.Errorf("insert redis distance cache: marshal: %w", err)
		}
		pipe.Set(ctx, distanceKey(origin, dest), payload, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert redis distance cache: exec pipeline: %w", err)
	}
	return nil
}
