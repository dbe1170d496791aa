package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/domain/repository"
	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
)

// LifecycleUseCase drives auctions through ACTIVE -> SETTLING -> SETTLED.
// All state changes are conditional updates on the auction row.
type LifecycleUseCase struct {
	auctions repository.AuctionRepository
	clock    clock.Clock
}

// NewLifecycleUseCase constructs LifecycleUseCase.
func NewLifecycleUseCase(auctions repository.AuctionRepository, clk clock.Clock) *LifecycleUseCase {
	return &LifecycleUseCase{auctions: auctions, clock: clk}
}

// BeginSettlement moves a due auction into SETTLING. proceed is true when the
// caller should run settlement: either this call made the transition or an
// earlier run stopped half way. It is false once the auction is SETTLED.
func (u *LifecycleUseCase) BeginSettlement(ctx context.Context, auctionID int64) (proceed bool, err error) {
	auction, err := u.auctions.GetByID(ctx, auctionID)
	if err != nil {
		return false, err
	}
	if u.clock.Now().Before(auction.EndTime) {
		return false, &domainErrors.NotDueError{AuctionID: auctionID, EndTime: auction.EndTime}
	}

	switch auction.State {
	case model.AuctionStateSettled:
		return false, nil
	case model.AuctionStateSettling:
		return true, nil
	}

	changed, err := u.auctions.TransitionState(ctx, auctionID, model.AuctionStateActive, model.AuctionStateSettling)
	if err != nil {
		return false, fmt.Errorf("begin settlement of auction %d: %w", auctionID, err)
	}
	if changed {
		return true, nil
	}

	// Someone else moved it first.
	auction, err = u.auctions.GetByID(ctx, auctionID)
	if err != nil {
		return false, err
	}
	return auction.State == model.AuctionStateSettling, nil
}

// CompleteSettlement marks a SETTLING auction SETTLED.
func (u *LifecycleUseCase) CompleteSettlement(ctx context.Context, auctionID int64) error {
	changed, err := u.auctions.TransitionState(ctx, auctionID, model.AuctionStateSettling, model.AuctionStateSettled)
	if err != nil {
		return fmt.Errorf("complete settlement of auction %d: %w", auctionID, err)
	}
	if !changed {
		return fmt.Errorf("complete settlement of auction %d: not in %s: %w",
			auctionID, model.AuctionStateSettling, domainErrors.ErrInvariantViolation)
	}
	return nil
}
