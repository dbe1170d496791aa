package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/usecase"
)

// SettlementScheduler receives settlement deadlines of new auctions.
type SettlementScheduler interface {
	ScheduleSettlement(auctionID int64, at time.Time)
}

// HealthChecker reports whether the store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// AuctionFacade is the single entry point of the HTTP layer into the use cases.
type AuctionFacade struct {
	auth      *usecase.AuthUseCase
	auctions  *usecase.AuctionUseCase
	bids      *usecase.BidUseCase
	inbox     *usecase.InboxUseCase
	orders    *usecase.OrderUseCase
	invoices  *usecase.InvoiceUseCase
	scheduler SettlementScheduler
	health    HealthChecker
	logger    *slog.Logger
}

func NewAuctionFacade(
	auth *usecase.AuthUseCase,
	auctions *usecase.AuctionUseCase,
	bids *usecase.BidUseCase,
	inbox *usecase.InboxUseCase,
	orders *usecase.OrderUseCase,
	invoices *usecase.InvoiceUseCase,
	scheduler SettlementScheduler,
	health HealthChecker,
	logger *slog.Logger,
) *AuctionFacade {
	return &AuctionFacade{
		auth:      auth,
		auctions:  auctions,
		bids:      bids,
		inbox:     inbox,
		orders:    orders,
		invoices:  invoices,
		scheduler: scheduler,
		health:    health,
		logger:    logger,
	}
}

func (f *AuctionFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *AuctionFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *AuctionFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

// CreateAuction lists an auction and schedules its settlement.
func (f *AuctionFacade) CreateAuction(ctx context.Context, sellerID int64, in model.NewAuction) (*model.Auction, error) {
	auction, err := f.auctions.Create(ctx, sellerID, in)
	if err != nil {
		return nil, err
	}
	f.scheduler.ScheduleSettlement(auction.ID, auction.EndTime)
	f.logger.Info("auction listed",
		slog.Int64("auction_id", auction.ID),
		slog.Int64("seller_id", sellerID),
		slog.Time("end_time", auction.EndTime),
	)
	return auction, nil
}

func (f *AuctionFacade) Auction(ctx context.Context, viewerID, auctionID int64) (*model.AuctionView, error) {
	return f.auctions.Get(ctx, viewerID, auctionID)
}

func (f *AuctionFacade) Auctions(ctx context.Context, query model.AuctionQuery) ([]model.AuctionView, error) {
	return f.auctions.List(ctx, query)
}

func (f *AuctionFacade) PlaceBid(ctx context.Context, auctionID, bidderID int64, amount decimal.Decimal) (*model.Bid, error) {
	return f.bids.PlaceBid(ctx, auctionID, bidderID, amount)
}

func (f *AuctionFacade) Bids(ctx context.Context, auctionID int64) ([]model.Bid, error) {
	return f.bids.ListBids(ctx, auctionID)
}

func (f *AuctionFacade) Pin(ctx context.Context, userID, auctionID int64) error {
	return f.auctions.Pin(ctx, userID, auctionID)
}

func (f *AuctionFacade) Unpin(ctx context.Context, userID, auctionID int64) error {
	return f.auctions.Unpin(ctx, userID, auctionID)
}

func (f *AuctionFacade) Pinned(ctx context.Context, userID int64) ([]model.AuctionView, error) {
	return f.auctions.Pinned(ctx, userID)
}

func (f *AuctionFacade) Inbox(ctx context.Context, userID int64) (*model.Inbox, error) {
	return f.inbox.Inbox(ctx, userID)
}

func (f *AuctionFacade) MarkInboxRead(ctx context.Context, userID int64) error {
	return f.inbox.MarkRead(ctx, userID)
}

func (f *AuctionFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *AuctionFacade) Invoice(ctx context.Context, userID int64, number string) (*model.Order, *model.Invoice, error) {
	return f.invoices.InvoiceForOrder(ctx, userID, number)
}

func (f *AuctionFacade) MarkPaid(ctx context.Context, userID int64, number string) (*model.Order, error) {
	return f.orders.MarkPaid(ctx, userID, number)
}

func (f *AuctionFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
