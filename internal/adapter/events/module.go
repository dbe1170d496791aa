package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/polkiloo/auctionhouse/internal/config"
)

// Module provides a Publisher backed by NATS when NATS_URL is set.
var Module = fx.Provide(newPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

var natsConnect = func(url string, logger *slog.Logger) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("auctionhouse"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
}

func newPublisher(p publisherParams) (Publisher, error) {
	if p.Config.NATSURL == "" {
		p.Logger.Info("nats url not configured, events are dropped")
		return NopPublisher{}, nil
	}

	conn, err := natsConnect(p.Config.NATSURL, p.Logger)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := conn.Drain(); err != nil {
				conn.Close()
				return err
			}
			return nil
		},
	})
	return NewNATSPublisher(conn, p.Logger), nil
}
