package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "eduarchive:session:"
	redisLockTTL   = 30 * time.Second
	redisLockRetry = 50 * time.Millisecond
)

var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSessionStore sesi disimpan sebagai JSON dengan TTL; kedaluwarsa diurus Redis.
type RedisSessionStore[T any] struct {
	RDB    *redis.Client
	Entity string
	TTL    time.Duration
}

func NewRedisSessionStore[T any](rdb *redis.Client, entity string, ttl time.Duration) *RedisSessionStore[T] {
	return &RedisSessionStore[T]{RDB: rdb, Entity: entity, TTL: ttl}
}

// NewSessionStore memilih store: Redis bila rdb terisi, selain itu memory.
func NewSessionStore[T any](rdb *redis.Client, entity string, ttl time.Duration) SessionStore[T] {
	if rdb != nil {
		return NewRedisSessionStore[T](rdb, entity, ttl)
	}
	return NewMemorySessionStore[T](ttl)
}

func (r *RedisSessionStore[T]) key(id string) string {
	return redisKeyPrefix + r.Entity + ":" + id
}

func (r *RedisSessionStore[T]) Create(ctx context.Context, s *Session[T]) error {
	return r.Put(ctx, s)
}

func (r *RedisSessionStore[T]) Get(ctx context.Context, id string) (*Session[T], error) {
	raw, err := r.RDB.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get sesi: %w", err)
	}
	var s Session[T]
	if err := sonic.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisSessionStore[T]) Put(ctx context.Context, s *Session[T]) error {
	raw, err := sonic.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.RDB.Set(ctx, r.key(s.ID), raw, r.TTL).Err(); err != nil {
		return fmt.Errorf("redis set sesi: %w", err)
	}
	return nil
}

func (r *RedisSessionStore[T]) Delete(ctx context.Context, id string) error {
	return r.RDB.Del(ctx, r.key(id)).Err()
}

func (r *RedisSessionStore[T]) Lock(ctx context.Context, id string) (func(), error) {
	lockKey := r.key(id) + ":lock"
	token := uuid.NewString()
	for {
		ok, err := r.RDB.SetNX(ctx, lockKey, token, redisLockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock sesi: %w", err)
		}
		if ok {
			return func() {
				_ = unlockScript.Run(context.Background(), r.RDB, []string{lockKey}, token).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(redisLockRetry):
		}
	}
}

// Sweep: key sesi biasanya sudah kedaluwarsa lewat TTL; SCAN ini menangkap sesi tanpa TTL
// atau TTL yang lebih panjang dari cutoff reaper.
func (r *RedisSessionStore[T]) Sweep(ctx context.Context, cutoff time.Time) ([]*Session[T], error) {
	var out []*Session[T]
	iter := r.RDB.Scan(ctx, 0, r.key("*"), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if strings.HasSuffix(key, ":lock") {
			continue
		}
		raw, err := r.RDB.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return out, fmt.Errorf("redis sweep sesi: %w", err)
		}
		var s Session[T]
		if err := sonic.Unmarshal(raw, &s); err != nil {
			_ = r.RDB.Del(ctx, key).Err()
			continue
		}
		if !s.UpdatedAt.Before(cutoff) || s.Submitting {
			continue
		}
		if err := r.RDB.Del(ctx, key).Err(); err != nil {
			return out, fmt.Errorf("redis sweep sesi: %w", err)
		}
		out = append(out, &s)
	}
	if err := iter.Err(); err != nil {
		return out, fmt.Errorf("redis scan sesi: %w", err)
	}
	return out, nil
}
