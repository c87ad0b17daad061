package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "folio:session:"

// RedisBackend stores sessions as JSON values with a TTL.
type RedisBackend struct {
	rc *redis.Client
}

func NewRedisBackend(rc *redis.Client) *RedisBackend {
	return &RedisBackend{rc: rc}
}

func (b *RedisBackend) Load(ctx context.Context, ref string) (State, error) {
	raw, err := b.rc.Get(ctx, redisKeyPrefix+ref).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, err
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, err
	}
	return st, nil
}

func (b *RedisBackend) Save(ctx context.Context, ref string, st State, ttl time.Duration) (string, error) {
	if ref == "" {
		ref = uuid.NewString()
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	if err := b.rc.Set(ctx, redisKeyPrefix+ref, raw, ttl).Err(); err != nil {
		return "", err
	}
	return ref, nil
}

func (b *RedisBackend) Delete(ctx context.Context, ref string) error {
	return b.rc.Del(ctx, redisKeyPrefix+ref).Err()
}
