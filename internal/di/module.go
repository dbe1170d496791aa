package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/auctionhouse/internal/adapter/events"
	"github.com/polkiloo/auctionhouse/internal/adapter/lock"
	"github.com/polkiloo/auctionhouse/internal/app"
	"github.com/polkiloo/auctionhouse/internal/config"
	"github.com/polkiloo/auctionhouse/internal/logger"
	"github.com/polkiloo/auctionhouse/internal/pkg/auth"
	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
	"github.com/polkiloo/auctionhouse/internal/pkg/ordernumber"
	"github.com/polkiloo/auctionhouse/internal/server/http/handlers"
	"github.com/polkiloo/auctionhouse/internal/server/http/router"
	"github.com/polkiloo/auctionhouse/internal/storage/postgres"
	"github.com/polkiloo/auctionhouse/internal/usecase"
)

var _ handlers.AuctionHouseFacade = (*app.AuctionFacade)(nil)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		clock.Module,
		ordernumber.Module,
		auth.Module,
		postgres.Module,
		lock.Module,
		events.Module,
		usecase.Module,
		fx.Provide(func(f *app.AuctionFacade) handlers.AuctionHouseFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
