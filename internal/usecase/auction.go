package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/domain/repository"
	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
)

const maxTitleLength = 200

// AuctionUseCase lists, creates and pins auctions.
type AuctionUseCase struct {
	auctions repository.AuctionRepository
	pins     repository.PinRepository
	clock    clock.Clock
}

// NewAuctionUseCase constructs AuctionUseCase.
func NewAuctionUseCase(auctions repository.AuctionRepository, pins repository.PinRepository, clk clock.Clock) *AuctionUseCase {
	return &AuctionUseCase{auctions: auctions, pins: pins, clock: clk}
}

// Create lists a new auction. The end time is fixed here and never changes.
func (u *AuctionUseCase) Create(ctx context.Context, sellerID int64, in model.NewAuction) (*model.Auction, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > maxTitleLength || in.Duration < 0 {
		return nil, domainErrors.ErrInvalidAuction
	}
	if in.StartingPrice.IsNegative() || !model.WholeCents(in.StartingPrice) {
		return nil, domainErrors.ErrInvalidAmount
	}
	if !in.MinBidIncrement.IsPositive() || !model.WholeCents(in.MinBidIncrement) {
		return nil, domainErrors.ErrInvalidIncrement
	}

	duration := in.Duration
	if duration == 0 {
		duration = model.DefaultAuctionDuration
	}

	return u.auctions.Create(ctx, &model.Auction{
		SellerID:        sellerID,
		Title:           title,
		Description:     strings.TrimSpace(in.Description),
		StartingPrice:   in.StartingPrice,
		MinBidIncrement: in.MinBidIncrement,
		Duration:        duration,
		EndTime:         u.clock.Now().Add(duration),
		HighestBid:      in.StartingPrice,
		State:           model.AuctionStateActive,
		Visible:         !in.Hidden,
	})
}

// Get returns the auction view. Hidden auctions are visible to their seller only.
func (u *AuctionUseCase) Get(ctx context.Context, viewerID, auctionID int64) (*model.AuctionView, error) {
	auction, err := u.auctions.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if !auction.Visible && auction.SellerID != viewerID {
		return nil, domainErrors.ErrAuctionNotFound
	}
	view := auction.View()
	return &view, nil
}

// List returns one page of visible auctions.
func (u *AuctionUseCase) List(ctx context.Context, query model.AuctionQuery) ([]model.AuctionView, error) {
	auctions, err := u.auctions.List(ctx, query.Normalize())
	if err != nil {
		return nil, err
	}
	return views(auctions), nil
}

// Pin adds the auction to the user's followed list.
func (u *AuctionUseCase) Pin(ctx context.Context, userID, auctionID int64) error {
	if _, err := u.auctions.GetByID(ctx, auctionID); err != nil {
		return err
	}
	return u.pins.Pin(ctx, auctionID, userID)
}

// Unpin removes the auction from the user's followed list.
func (u *AuctionUseCase) Unpin(ctx context.Context, userID, auctionID int64) error {
	return u.pins.Unpin(ctx, auctionID, userID)
}

// Pinned returns auctions the user follows, ending soonest first.
func (u *AuctionUseCase) Pinned(ctx context.Context, userID int64) ([]model.AuctionView, error) {
	auctions, err := u.pins.ListPinned(ctx, userID)
	if err != nil {
		return nil, err
	}
	return views(auctions), nil
}

func views(auctions []model.Auction) []model.AuctionView {
	result := make([]model.AuctionView, 0, len(auctions))
	for i := range auctions {
		result = append(result, auctions[i].View())
	}
	return result
}
