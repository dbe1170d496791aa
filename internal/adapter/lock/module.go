package lock

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/auctionhouse/internal/config"
	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
)

// Module provides a Locker backed by Redis when configured and by process memory otherwise.
var Module = fx.Provide(newLocker)

type lockerParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Clock     clock.Clock
	Logger    *slog.Logger
}

func newLocker(p lockerParams) (Locker, error) {
	if p.Config.RedisAddress == "" {
		p.Logger.Info("redis address not configured, using in-process settlement lock")
		return NewLocalLocker(p.Clock), nil
	}

	l, err := NewRedisLocker(p.Ctx, p.Config.RedisAddress, p.Config.RedisPassword, p.Config.RedisDB)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return l.Close()
		},
	})
	return l, nil
}
