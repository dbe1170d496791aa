package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still carries the caller's token.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisLocker implements Locker with SET NX PX leases on a shared Redis.
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker connects to Redis and verifies the connection.
func NewRedisLocker(ctx context.Context, addr, password string, db int) (*RedisLocker, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisLocker{client: rdb}, nil
}

func (l *RedisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *RedisLocker) Release(ctx context.Context, key, token string) error {
	deleted, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int64()
	if err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	if deleted == 0 {
		return ErrNotHeld
	}
	return nil
}

// Close shuts down the underlying client.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}
