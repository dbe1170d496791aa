package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/auctionhouse/internal/config"
	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
)

// Module provides the password hasher and token strategy.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
)

func newPasswordHasher(cfg *config.Config) PasswordHasher {
	return NewBcryptHasher(cfg.BcryptCost)
}

type strategyParams struct {
	fx.In

	Config *config.Config
	Clock  clock.Clock
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.JWTSecret, Options{TTL: p.Config.TokenTTL, Clock: p.Clock})
}
