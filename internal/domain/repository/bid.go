package repository

import (
	"context"

	"github.com/polkiloo/auctionhouse/internal/domain/model"
)

// BidRepository is the append-only bid history.
type BidRepository interface {
	Insert(ctx context.Context, bid *model.Bid) (*model.Bid, error)
	ListByAuction(ctx context.Context, auctionID int64) ([]model.Bid, error)
}
