package auth

import (
	"time"

	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
)

// Strategy issues bearer tokens for users and resolves them back to user ids.
type Strategy interface {
	IssueToken(userID int64) (string, error)
	ParseToken(token string) (int64, error)
	Name() string
}

// Claims are the facts a token carries.
type Claims struct {
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Options struct {
	TTL   time.Duration
	Clock clock.Clock
}
