package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the shared registry backend for multi-instance deployments.
// TTL eviction comes from Redis key expiry; Take stays atomic via GETDEL, so
// two instances handling the same terminal event race safely.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

const redisKeyPrefix = "training:call:"

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Insert(ctx context.Context, cc CallContext) error {
	if cc.CallID == "" {
		return ErrInvalidKey
	}
	payload, err := json.Marshal(cc)
	if err != nil {
		return fmt.Errorf("registry: encode context: %w", err)
	}
	ok, err := s.rdb.SetNX(ctx, redisKey(cc.CallID), payload, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("registry: redis insert: %w", err)
	}
	if !ok {
		return ErrDuplicate
	}
	return nil
}

func (s *RedisStore) Take(ctx context.Context, callID string) (CallContext, bool, error) {
	if callID == "" {
		return CallContext{}, false, ErrInvalidKey
	}
	raw, err := s.rdb.GetDel(ctx, redisKey(callID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return CallContext{}, false, nil
	}
	if err != nil {
		return CallContext{}, false, fmt.Errorf("registry: redis take: %w", err)
	}
	var cc CallContext
	if err := json.Unmarshal(raw, &cc); err != nil {
		return CallContext{}, false, fmt.Errorf("registry: decode context: %w", err)
	}
	return cc, true, nil
}

func redisKey(callID string) string {
	return redisKeyPrefix + callID
}
