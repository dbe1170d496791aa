package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/auctionhouse/internal/domain/model"
)

// AuctionRepository persists auctions and guards their lifecycle transitions.
type AuctionRepository interface {
	Create(ctx context.Context, auction *model.Auction) (*model.Auction, error)
	GetByID(ctx context.Context, id int64) (*model.Auction, error)
	// GetForUpdate loads the auction and locks its row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*model.Auction, error)
	List(ctx context.Context, query model.AuctionQuery) ([]model.Auction, error)
	// UpdateHighestBid succeeds only when the stored version equals expectedVersion,
	// otherwise it returns errors.ErrConflict.
	UpdateHighestBid(ctx context.Context, id, expectedVersion int64, amount decimal.Decimal, bidderID int64) error
	// TransitionState moves the auction from one state to another and reports whether a row changed.
	TransitionState(ctx context.Context, id int64, from, to model.AuctionState) (bool, error)
	ListUnsettled(ctx context.Context) ([]model.PendingSettlement, error)
}

// PinRepository tracks auctions users follow.
type PinRepository interface {
	Pin(ctx context.Context, auctionID, userID int64) error
	Unpin(ctx context.Context, auctionID, userID int64) error
	ListPinned(ctx context.Context, userID int64) ([]model.Auction, error)
}
