package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/auctionhouse/internal/adapter/lock"
	"github.com/polkiloo/auctionhouse/internal/config"
	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
	"github.com/polkiloo/auctionhouse/internal/storage/postgres"
	"github.com/polkiloo/auctionhouse/internal/usecase"
	"github.com/polkiloo/auctionhouse/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newAuctionFacade,
		newHTTPServer,
		newSettlementScheduler,
	),
	fx.Invoke(registerLifecycle),
)

var _ worker.SettlementFacade = (*usecase.SettlementUseCase)(nil)

type facadeParams struct {
	fx.In

	Auth      *usecase.AuthUseCase
	Auctions  *usecase.AuctionUseCase
	Bids      *usecase.BidUseCase
	Inbox     *usecase.InboxUseCase
	Orders    *usecase.OrderUseCase
	Invoices  *usecase.InvoiceUseCase
	Scheduler *worker.SettlementScheduler
	Storage   *postgres.Storage
	Logger    *slog.Logger
}

func newAuctionFacade(p facadeParams) *AuctionFacade {
	return NewAuctionFacade(p.Auth, p.Auctions, p.Bids, p.Inbox, p.Orders, p.Invoices, p.Scheduler, p.Storage, p.Logger)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Settlement *usecase.SettlementUseCase
	Locker     lock.Locker
	Clock      clock.Clock
	Config     *config.Config
	Logger     *slog.Logger
}

func newSettlementScheduler(p workerParams) *worker.SettlementScheduler {
	return worker.NewSettlementScheduler(
		p.Settlement,
		p.Locker,
		p.Clock,
		p.Config.SettlementPollInterval,
		p.Config.SettlementRetryDelay,
		p.Config.LockTTL,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Scheduler  *worker.SettlementScheduler
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting auctionhouse", slog.String("addr", p.Server.Addr))
			p.Scheduler.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Scheduler.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("auctionhouse stopped")
			return nil
		},
	})
}
