// Package lock provides short-lived mutual exclusion between settlement workers.
package lock

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
)

// ErrNotHeld is returned when releasing a lock whose token no longer owns the key.
var ErrNotHeld = errors.New("lock not held")

// Locker acquires keyed leases that expire after ttl unless released earlier.
type Locker interface {
	// TryAcquire never blocks waiting for the key. ok is false when another
	// holder owns it.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

// SettlementKey names the lock guarding settlement of one auction.
func SettlementKey(auctionID int64) string {
	return "auction:settle:" + strconv.FormatInt(auctionID, 10)
}

type localEntry struct {
	token   string
	expires time.Time
}

// LocalLocker keeps leases in process memory. It is used when no Redis
// address is configured and only one instance runs.
type LocalLocker struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]localEntry
}

// NewLocalLocker creates an in-process locker.
func NewLocalLocker(c clock.Clock) *LocalLocker {
	if c == nil {
		c = clock.System{}
	}
	return &LocalLocker{clock: c, entries: make(map[string]localEntry)}
}

func (l *LocalLocker) TryAcquire(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if e, ok := l.entries[key]; ok && now.Before(e.expires) {
		return "", false, nil
	}
	token := uuid.NewString()
	l.entries[key] = localEntry{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

func (l *LocalLocker) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || e.token != token {
		return ErrNotHeld
	}
	delete(l.entries, key)
	return nil
}
