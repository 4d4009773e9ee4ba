package quote

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"goldcatalog/internal/model"
)

const (
	snapshotKey = "gold:quote:latest"
	snapshotTTL = 24 * time.Hour
)

type Snapshot interface {
	Load(ctx context.Context) (model.Quote, bool, error)
	Save(ctx context.Context, q model.Quote) error
}

// RedisSnapshot keeps the last good quote in redis so a fresh process can
// price with it before its own first fetch.
type RedisSnapshot struct {
	Client *redis.Client
}

func NewRedisSnapshot(redisURL string) *RedisSnapshot {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		// Plain host:port, as in REDIS_URL=localhost:6379.
		opts = &redis.Options{Addr: redisURL}
	}
	return &RedisSnapshot{Client: redis.NewClient(opts)}
}

func (s *RedisSnapshot) Load(ctx context.Context) (model.Quote, bool, error) {
	val, err := s.Client.Get(ctx, snapshotKey).Result()
	if errors.Is(err, redis.Nil) {
		return model.Quote{}, false, nil
	}
	if err != nil {
		return model.Quote{}, false, err
	}

	var q model.Quote
	if err := json.Unmarshal([]byte(val), &q); err != nil {
		return model.Quote{}, false, err
	}
	return q, true, nil
}

func (s *RedisSnapshot) Save(ctx context.Context, q model.Quote) error {
	b, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, snapshotKey, b, snapshotTTL).Err()
}

func (s *RedisSnapshot) Close() error {
	return s.Client.Close()
}
