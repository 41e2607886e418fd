package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"field-visit-service/internal/domain"
)

// RedisOutletCache shares outlet reference data between field devices
// behind one branch server. Entries expire: outlet fences get edited
// by operators and a stale radius is worse than a refetch.
type RedisOutletCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisOutletCache(client *redis.Client, ttl time.Duration) *RedisOutletCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisOutletCache{Client: client, TTL: ttl}
}

type redisOutlet struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Radius   int    `json:"radius"`
}

func outletKey(id int) string {
	return "outlet:" + strconv.Itoa(id)
}

// Fetch cached outlets for the given ids.
func (r *RedisOutletCache) GetMany(ctx context.Context, ids []int) (map[int]domain.Outlet, error) {
	if r.Client == nil {
		return nil, errors.New("outlet cache: redis client is nil")
	}

	if len(ids) == 0 {
		return map[int]domain.Outlet{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			keys = append(keys, outletKey(id))
		}
	}
	if len(keys) == 0 {
		return map[int]domain.Outlet{}, nil
	}

	values, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get outlet cache: redis mget: %w", err)
	}

	out := make(map[int]domain.Outlet, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}

		var ro redisOutlet
		if err := json.Unmarshal([]byte(raw), &ro); err != nil {
			// Treat a corrupt entry as a miss.
			continue
		}
		out[ro.ID] = domain.Outlet{ID: ro.ID, Name: ro.Name, Location: ro.Location, Radius: ro.Radius}
	}

	return out, nil
}

// Store outlet records in the cache with the configured TTL.
func (r *RedisOutletCache) PutMany(ctx context.Context, outlets map[int]domain.Outlet) error {
	if r.Client == nil {
		return errors.New("outlet cache: redis client is nil")
	}

	if len(outlets) == 0 {
		return nil
	}

	pipe := r.Client.Pipeline()
	for id, o := range outlets {
		if id <= 0 {
			return fmt.Errorf("insert outlet cache: invalid outlet id %d", id)
		}

		raw, err := json.Marshal(redisOutlet{ID: id, Name: o.Name, Location: o.Location, Radius: o.Radius})
		if err != nil {
			return fmt.Errorf("insert outlet cache outlet_id=%d: marshal: %w", id, err)
		}
		pipe.Set(ctx, outletKey(id), raw, r.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert outlet cache: redis pipeline: %w", err)
	}

	return nil
}
