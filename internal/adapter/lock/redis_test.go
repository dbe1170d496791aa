package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newTestRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	l, err := NewRedisLocker(context.Background(), srv.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l, srv
}

func TestRedisLockerAcquireRelease(t *testing.T) {
	l, srv := newTestRedisLocker(t)
	ctx := context.Background()
	key := SettlementKey(7)

	token, ok, err := l.TryAcquire(ctx, key, 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, token)

	stored, err := srv.Get(key)
	require.NoError(t, err)
	require.Equal(t, token, stored)
	require.Equal(t, 30*time.Second, srv.TTL(key))

	_, ok, err = l.TryAcquire(ctx, key, 30*time.Second)
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, l.Release(ctx, key, "someone-else"), ErrNotHeld)
	require.True(t, srv.Exists(key))

	require.NoError(t, l.Release(ctx, key, token))
	require.False(t, srv.Exists(key))
}

func TestRedisLockerExpiredLease(t *testing.T) {
	l, srv := newTestRedisLocker(t)
	ctx := context.Background()

	stale, ok, err := l.TryAcquire(ctx, "k", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	srv.FastForward(2 * time.Second)

	fresh, ok, err := l.TryAcquire(ctx, "k", time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, stale, fresh)

	err = l.Release(ctx, "k", stale)
	require.True(t, errors.Is(err, ErrNotHeld))
}

func TestNewRedisLockerUnreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := NewRedisLocker(context.Background(), addr, "", 0)
	require.Error(t, err)
}

func TestRedisLockerClosedClient(t *testing.T) {
	l, _ := newTestRedisLocker(t)
	require.NoError(t, l.Close())

	_, _, err := l.TryAcquire(context.Background(), "k", time.Second)
	require.Error(t, err)
	require.Error(t, l.Release(context.Background(), "k", "t"))
}
