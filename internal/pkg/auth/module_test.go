package auth

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/auctionhouse/internal/config"
	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
)

func TestNewPasswordHasher(t *testing.T) {
	hasher := newPasswordHasher(&config.Config{BcryptCost: bcrypt.MinCost})
	bcryptHasher, ok := hasher.(*BcryptHasher)
	if !ok {
		t.Fatalf("expected *BcryptHasher, got %T", hasher)
	}
	if bcryptHasher.cost != bcrypt.MinCost {
		t.Fatalf("unexpected cost: %d", bcryptHasher.cost)
	}
}

func TestNewTokenStrategy(t *testing.T) {
	clk := clock.NewManual(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	strategy := newTokenStrategy(strategyParams{
		Config: &config.Config{JWTSecret: "top-secret", TokenTTL: time.Hour},
		Clock:  clk,
	})
	hmacStrategy, ok := strategy.(*HMACStrategy)
	if !ok {
		t.Fatalf("expected *HMACStrategy, got %T", strategy)
	}
	if string(hmacStrategy.secret) != "top-secret" {
		t.Fatalf("unexpected secret: %q", string(hmacStrategy.secret))
	}
	if hmacStrategy.ttl != time.Hour {
		t.Fatalf("unexpected ttl: %s", hmacStrategy.ttl)
	}
	if hmacStrategy.clock != clk {
		t.Fatal("expected injected clock")
	}
}
