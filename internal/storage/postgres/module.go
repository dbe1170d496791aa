package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/auctionhouse/internal/config"
	"github.com/polkiloo/auctionhouse/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.Transactor { return s },
		func(s *Storage) repository.UserRepository { return s.Users() },
		func(s *Storage) repository.AuctionRepository { return s.Auctions() },
		func(s *Storage) repository.BidRepository { return s.Bids() },
		func(s *Storage) repository.PinRepository { return s.Pins() },
		func(s *Storage) repository.OrderRepository { return s.Orders() },
		func(s *Storage) repository.InvoiceRepository { return s.Invoices() },
		func(s *Storage) repository.InboxRepository { return s.Inboxes() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
