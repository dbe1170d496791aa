package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/auctionhouse/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// AuctionFacade lists, creates and pins auctions.
type AuctionFacade interface {
	CreateAuction(ctx context.Context, sellerID int64, in model.NewAuction) (*model.Auction, error)
	Auction(ctx context.Context, viewerID, auctionID int64) (*model.AuctionView, error)
	Auctions(ctx context.Context, query model.AuctionQuery) ([]model.AuctionView, error)
	Pin(ctx context.Context, userID, auctionID int64) error
	Unpin(ctx context.Context, userID, auctionID int64) error
	Pinned(ctx context.Context, userID int64) ([]model.AuctionView, error)
}

// BidFacade places bids and reads bid history.
type BidFacade interface {
	PlaceBid(ctx context.Context, auctionID, bidderID int64, amount decimal.Decimal) (*model.Bid, error)
	Bids(ctx context.Context, auctionID int64) ([]model.Bid, error)
}

// InboxFacade reads user notifications.
type InboxFacade interface {
	Inbox(ctx context.Context, userID int64) (*model.Inbox, error)
	MarkInboxRead(ctx context.Context, userID int64) error
}

// OrderFacade encapsulates order and invoice operations exposed via HTTP.
type OrderFacade interface {
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	Invoice(ctx context.Context, userID int64, number string) (*model.Order, *model.Invoice, error)
	MarkPaid(ctx context.Context, userID int64, number string) (*model.Order, error)
}

// HealthFacade reports readiness of the backing store.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// AuctionHouseFacade aggregates the full set of operations used across handlers.
type AuctionHouseFacade interface {
	AuthFacade
	AuctionFacade
	BidFacade
	InboxFacade
	OrderFacade
	HealthFacade
}
