package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"github.com/polkiloo/auctionhouse/internal/config"
	"github.com/polkiloo/auctionhouse/internal/di"
)

var _ application = (*fx.App)(nil)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	app := fx.New(
		fx.StopTimeout(cfg.ShutdownTimeout),
		fx.Provide(func() context.Context { return ctx }),
		di.Module(fx.Replace(cfg)),
	)

	code := run(ctx, app, os.Stderr)
	stop()
	os.Exit(code)
}
