package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/polkiloo/auctionhouse/internal/adapter/events"
	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/domain/repository"
	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
	"github.com/polkiloo/auctionhouse/internal/pkg/ordernumber"
)

const wonMessage = "Congratulations! You won the auction for %s. Click here to see!"

// SettlementUseCase turns a finished auction into an order, an invoice and
// notifications. Running it again for the same auction is a no-op.
type SettlementUseCase struct {
	tx        repository.Transactor
	auctions  repository.AuctionRepository
	orders    repository.OrderRepository
	lifecycle *LifecycleUseCase
	invoices  *InvoiceUseCase
	inbox     *InboxUseCase
	numbers   ordernumber.Generator
	publisher events.Publisher
	clock     clock.Clock
	logger    *slog.Logger
}

// NewSettlementUseCase constructs SettlementUseCase.
func NewSettlementUseCase(
	tx repository.Transactor,
	auctions repository.AuctionRepository,
	orders repository.OrderRepository,
	lifecycle *LifecycleUseCase,
	invoices *InvoiceUseCase,
	inbox *InboxUseCase,
	numbers ordernumber.Generator,
	publisher events.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		tx:        tx,
		auctions:  auctions,
		orders:    orders,
		lifecycle: lifecycle,
		invoices:  invoices,
		inbox:     inbox,
		numbers:   numbers,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
	}
}

// PendingSettlements lists auctions that are not settled yet, earliest end
// time first.
func (u *SettlementUseCase) PendingSettlements(ctx context.Context) ([]model.PendingSettlement, error) {
	return u.auctions.ListUnsettled(ctx)
}

// Settle settles a due auction. It returns ErrSettlementNotDue before the
// auction's end time.
func (u *SettlementUseCase) Settle(ctx context.Context, auctionID int64) (*model.Settlement, error) {
	proceed, err := u.lifecycle.BeginSettlement(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if !proceed {
		return &model.Settlement{AuctionID: auctionID, Outcome: model.SettlementAlreadySettled}, nil
	}

	var result model.Settlement
	err = u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		result = model.Settlement{AuctionID: auctionID}

		auction, err := u.auctions.GetForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}
		switch auction.State {
		case model.AuctionStateSettling:
		case model.AuctionStateSettled:
			result.Outcome = model.SettlementAlreadySettled
			return nil
		default:
			return fmt.Errorf("settle auction %d in state %s: %w", auctionID, auction.State, domainErrors.ErrInvariantViolation)
		}

		if auction.HighestBidderID == nil {
			result.Outcome = model.SettlementNoSale
			return u.lifecycle.CompleteSettlement(ctx, auctionID)
		}

		order, invoice, err := u.recordSale(ctx, auction)
		if err != nil {
			return err
		}
		result.Outcome = model.SettlementSold
		result.Order = order
		result.Invoice = invoice
		return u.lifecycle.CompleteSettlement(ctx, auctionID)
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvariantViolation) {
			u.logger.Error("settlement aborted", "auction_id", auctionID, "error", err)
		}
		return nil, err
	}

	if result.Outcome != model.SettlementAlreadySettled {
		u.publishSettled(ctx, &result)
	}
	u.logger.Info("auction settled", "auction_id", auctionID, "outcome", string(result.Outcome))
	return &result, nil
}

// recordSale creates the order, its invoice and the win notification, or
// returns the order left behind by an earlier run.
func (u *SettlementUseCase) recordSale(ctx context.Context, auction *model.Auction) (*model.Order, *model.Invoice, error) {
	existing, err := u.orders.GetByAuction(ctx, auction.ID)
	switch {
	case err == nil:
		invoice, err := u.invoices.Invoice(ctx, existing.ID)
		if errors.Is(err, domainErrors.ErrNotFound) {
			invoice, err = u.createInvoice(ctx, existing, auction)
		}
		if err != nil {
			return nil, nil, err
		}
		return existing, invoice, nil
	case !errors.Is(err, domainErrors.ErrNotFound):
		return nil, nil, err
	}

	number, err := u.numbers.Generate()
	if err != nil {
		return nil, nil, err
	}
	order, err := u.orders.Create(ctx, &model.Order{
		AuctionID:   auction.ID,
		Number:      number,
		SenderID:    auction.SellerID,
		RecipientID: *auction.HighestBidderID,
		Complete:    true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create order for auction %d: %w", auction.ID, err)
	}

	invoice, err := u.createInvoice(ctx, order, auction)
	if err != nil {
		return nil, nil, err
	}

	content := fmt.Sprintf(wonMessage, auction.Title)
	if err := u.inbox.Notify(ctx, order.RecipientID, content, auctionRedirect(auction.ID)+"/"); err != nil {
		return nil, nil, err
	}
	order.InvoiceReady = true
	return order, invoice, nil
}

func (u *SettlementUseCase) createInvoice(ctx context.Context, order *model.Order, auction *model.Auction) (*model.Invoice, error) {
	invoice, err := u.invoices.CreateInvoice(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if _, err := u.invoices.AddItem(ctx, invoice.ID, auction.Title, 1, auction.HighestBid); err != nil {
		return nil, err
	}
	return u.invoices.Invoice(ctx, order.ID)
}

func (u *SettlementUseCase) publishSettled(ctx context.Context, result *model.Settlement) {
	event := events.NewEvent(events.TypeAuctionSettled, result.AuctionID, u.clock.Now())
	event.Outcome = string(result.Outcome)
	if result.Order != nil {
		event.UserID = &result.Order.RecipientID
	}
	if result.Invoice != nil {
		event.Amount = &result.Invoice.TotalCost
	}
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.logger.Warn("failed to publish settlement event", "auction_id", result.AuctionID, "error", err)
	}
}
