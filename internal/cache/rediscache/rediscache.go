package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BearBump/OrderConsole/internal/models"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Ключ журнала действий сессии: console:session:{id}:actions -> list (newest first).
const keySessionActions = "console:session:%s:actions"

type RedisCache struct {
	c *redis.Client
}

func New(addr string) *RedisCache {
	return &RedisCache{
		c: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.c.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "redis ping")
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.c.Close()
}

// ActionStore keeps one console session's audit log in a Redis list.
// ttl <= 0 keeps the key forever.
func (r *RedisCache) ActionStore(sessionID string, ttl time.Duration) *ActionStore {
	return &ActionStore{
		c:   r.c,
		key: fmt.Sprintf(keySessionActions, sessionID),
		ttl: ttl,
	}
}

type ActionStore struct {
	c   *redis.Client
	key string
	ttl time.Duration
}

// Prepend делает LPUSH и продлевает TTL сессии в одной транзакции.
func (s *ActionStore) Prepend(ctx context.Context, e models.ActionEntry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal action")
	}
	pipe := s.c.TxPipeline()
	pipe.LPush(ctx, s.key, b)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "redis lpush")
	}
	return nil
}

func (s *ActionStore) List(ctx context.Context) ([]models.ActionEntry, error) {
	vals, err := s.c.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis lrange")
	}
	out := make([]models.ActionEntry, 0, len(vals))
	for _, v := range vals {
		var e models.ActionEntry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			return nil, errors.Wrap(err, "unmarshal action")
		}
		out = append(out, e)
	}
	return out, nil
}
