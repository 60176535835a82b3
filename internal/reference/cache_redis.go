package reference

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const searchKeyPrefix = "fwi:locations:"

// RedisSearchCache shares search results between processes through Redis.
type RedisSearchCache struct {
	rdb *redis.Client
	log *zap.SugaredLogger
}

// NewRedisSearchCache connects to addr and verifies the connection.
func NewRedisSearchCache(ctx context.Context, addr, password string, db int, log *zap.SugaredLogger) (*RedisSearchCache, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	log.Infof("Connected to Redis at %s", addr)
	return &RedisSearchCache{rdb: rdb, log: log}, nil
}

// Close closes the Redis connection.
func (c *RedisSearchCache) Close() error {
	return c.rdb.Close()
}

func (c *RedisSearchCache) Get(ctx context.Context, query string) ([]Candidate, bool) {
	raw, err := c.rdb.Get(ctx, searchKeyPrefix+query).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnw("location cache read failed", "query", query, "error", err)
		}
		return nil, false
	}
	var candidates []Candidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		c.log.Warnw("location cache entry unreadable", "query", query, "error", err)
		return nil, false
	}
	return candidates, true
}

func (c *RedisSearchCache) Set(ctx context.Context, query string, candidates []Candidate, ttl time.Duration) {
	raw, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, searchKeyPrefix+query, raw, ttl).Err(); err != nil {
		c.log.Warnw("location cache write failed", "query", query, "error", err)
	}
}
