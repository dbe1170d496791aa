package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/auctionhouse/internal/adapter/events"
	"github.com/polkiloo/auctionhouse/internal/config"
	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/domain/repository"
	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
	"github.com/polkiloo/auctionhouse/internal/pkg/retry"
)

const outbidMessage = "You were outbid on %s! Click to go!"

func auctionRedirect(auctionID int64) string {
	return fmt.Sprintf("/auction-gallery/%d", auctionID)
}

// BidUseCase accepts bids and keeps the winning bid of every auction.
type BidUseCase struct {
	tx        repository.Transactor
	auctions  repository.AuctionRepository
	bids      repository.BidRepository
	pins      repository.PinRepository
	inbox     *InboxUseCase
	publisher events.Publisher
	clock     clock.Clock
	policy    retry.Policy
	notify    retry.Policy
	logger    *slog.Logger
}

// NewBidUseCase constructs BidUseCase.
func NewBidUseCase(
	tx repository.Transactor,
	auctions repository.AuctionRepository,
	bids repository.BidRepository,
	pins repository.PinRepository,
	inbox *InboxUseCase,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.Config,
	logger *slog.Logger,
) *BidUseCase {
	return &BidUseCase{
		tx:        tx,
		auctions:  auctions,
		bids:      bids,
		pins:      pins,
		inbox:     inbox,
		publisher: publisher,
		clock:     clk,
		policy: retry.Policy{
			Attempts:  cfg.BidRetryAttempts,
			BaseDelay: 10 * time.Millisecond,
			MaxDelay:  250 * time.Millisecond,
		},
		notify: retry.Policy{
			Attempts:  3,
			BaseDelay: 5 * time.Millisecond,
			MaxDelay:  20 * time.Millisecond,
		},
		logger: logger,
	}
}

func retryableStoreError(err error) bool {
	return errors.Is(err, domainErrors.ErrConflict) || errors.Is(err, domainErrors.ErrTransient)
}

// PlaceBid records a bid and makes it the auction's highest bid. Lost races
// and transient store failures are retried with fresh auction state.
func (u *BidUseCase) PlaceBid(ctx context.Context, auctionID, bidderID int64, amount decimal.Decimal) (*model.Bid, error) {
	if !amount.IsPositive() || !model.WholeCents(amount) {
		return nil, domainErrors.ErrInvalidAmount
	}

	var receipt *model.BidReceipt
	err := retry.Do(ctx, u.policy, retryableStoreError, func(ctx context.Context) error {
		r, err := u.place(ctx, auctionID, bidderID, amount)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.afterAccept(ctx, receipt)
	return &receipt.Bid, nil
}

func (u *BidUseCase) place(ctx context.Context, auctionID, bidderID int64, amount decimal.Decimal) (*model.BidReceipt, error) {
	var receipt model.BidReceipt
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		auction, err := u.auctions.GetForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}
		if auction.SellerID == bidderID {
			return domainErrors.ErrSelfBid
		}
		if !auction.AcceptsBidsAt(u.clock.Now()) {
			return domainErrors.ErrAuctionInactive
		}
		if minimum := auction.MinimumNextBid(); amount.LessThan(minimum) {
			return fmt.Errorf("minimum is %s: %w", minimum.StringFixed(2), domainErrors.ErrBidTooLow)
		}

		bid, err := u.bids.Insert(ctx, &model.Bid{AuctionID: auctionID, BidderID: bidderID, Amount: amount})
		if err != nil {
			return fmt.Errorf("insert bid: %w", err)
		}
		if err := u.auctions.UpdateHighestBid(ctx, auctionID, auction.Version, amount, bidderID); err != nil {
			return err
		}

		receipt = model.BidReceipt{Bid: *bid, AuctionTitle: auction.Title, PreviousBidderID: auction.HighestBidderID}
		if prev := auction.HighestBidderID; prev != nil && *prev != bidderID {
			u.notifyOutbid(ctx, *prev, auction)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// notifyOutbid writes the outbid message as part of the bid transaction, so
// it commits together with the bid. Every attempt runs under a savepoint: a
// failed write is undone on its own and never takes the bid down.
func (u *BidUseCase) notifyOutbid(ctx context.Context, userID int64, auction *model.Auction) {
	content := fmt.Sprintf(outbidMessage, auction.Title)
	always := func(error) bool { return true }
	err := retry.Do(ctx, u.notify, always, func(ctx context.Context) error {
		return u.tx.WithinSavepoint(ctx, func(ctx context.Context) error {
			return u.inbox.Notify(ctx, userID, content, auctionRedirect(auction.ID))
		})
	})
	if err != nil {
		u.logger.Warn("failed to notify outbid user", "auction_id", auction.ID, "user_id", userID, "error", err)
	}
}

func (u *BidUseCase) afterAccept(ctx context.Context, receipt *model.BidReceipt) {
	bid := receipt.Bid
	log := u.logger.With("auction_id", bid.AuctionID, "bid_id", bid.ID)

	if err := u.pins.Pin(ctx, bid.AuctionID, bid.BidderID); err != nil {
		log.Warn("failed to pin auction for bidder", "user_id", bid.BidderID, "error", err)
	}

	event := events.NewEvent(events.TypeBidAccepted, bid.AuctionID, bid.CreatedAt)
	event.UserID = &bid.BidderID
	event.Amount = &bid.Amount
	if err := u.publisher.Publish(ctx, event); err != nil {
		log.Warn("failed to publish bid event", "error", err)
	}

	attrs := []any{"user_id", bid.BidderID, "amount", bid.Amount.StringFixed(2)}
	if prev := receipt.PreviousBidderID; prev != nil {
		attrs = append(attrs, "outbid_user_id", *prev)
	}
	log.Info("bid accepted", attrs...)
}

// ListBids returns the bid history of an auction, newest first.
func (u *BidUseCase) ListBids(ctx context.Context, auctionID int64) ([]model.Bid, error) {
	if _, err := u.auctions.GetByID(ctx, auctionID); err != nil {
		return nil, err
	}
	return u.bids.ListByAuction(ctx, auctionID)
}
