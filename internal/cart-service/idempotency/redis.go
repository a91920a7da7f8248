package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jcmexdev/quick-order/internal/pkg/cache"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps locks under idemp:lock:<scope>:<key> and results under
// idemp:map:<scope>:<key>, both expiring after ttl.
type RedisStore struct {
	rdb  *redis.Client
	ttl  time.Duration
	keys cache.Keyspace
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, keys: cache.Keyspace("idemp")}
}

func (s *RedisStore) TryLock(ctx context.Context, scope, key string) (bool, error) {
	return s.rdb.SetNX(ctx, s.keys.GenerateKey("lock", scope+":"+key), "1", s.ttl).Result()
}

func (s *RedisStore) Remember(ctx context.Context, scope, key, value string) error {
	return s.rdb.Set(ctx, s.keys.GenerateKey("map", scope+":"+key), value, s.ttl).Err()
}

func (s *RedisStore) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, s.keys.GenerateKey("map", scope+":"+key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
