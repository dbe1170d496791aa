package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/auctionhouse/internal/domain/model"
)

// AuctionFacadeStub provides controllable behaviour for auction endpoints.
type AuctionFacadeStub struct {
	CreateFn   func(context.Context, int64, model.NewAuction) (*model.Auction, error)
	AuctionFn  func(context.Context, int64, int64) (*model.AuctionView, error)
	AuctionsFn func(context.Context, model.AuctionQuery) ([]model.AuctionView, error)
	PinFn      func(context.Context, int64, int64) error
	UnpinFn    func(context.Context, int64, int64) error
	PinnedFn   func(context.Context, int64) ([]model.AuctionView, error)
}

// CreateAuction delegates to provided function or echoes the input as an active auction.
func (s AuctionFacadeStub) CreateAuction(ctx context.Context, sellerID int64, in model.NewAuction) (*model.Auction, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, sellerID, in)
	}
	return &model.Auction{
		ID:              1,
		SellerID:        sellerID,
		Title:           in.Title,
		StartingPrice:   in.StartingPrice,
		MinBidIncrement: in.MinBidIncrement,
		HighestBid:      in.StartingPrice,
		Duration:        in.Duration,
		State:           model.AuctionStateActive,
		Visible:         !in.Hidden,
	}, nil
}

// Auction returns a fixed view unless overridden.
func (s AuctionFacadeStub) Auction(ctx context.Context, viewerID, auctionID int64) (*model.AuctionView, error) {
	if s.AuctionFn != nil {
		return s.AuctionFn(ctx, viewerID, auctionID)
	}
	return &model.AuctionView{ID: auctionID, Title: "Lamp", State: model.AuctionStateActive}, nil
}

// Auctions returns an empty page unless overridden.
func (s AuctionFacadeStub) Auctions(ctx context.Context, query model.AuctionQuery) ([]model.AuctionView, error) {
	if s.AuctionsFn != nil {
		return s.AuctionsFn(ctx, query)
	}
	return nil, nil
}

func (s AuctionFacadeStub) Pin(ctx context.Context, userID, auctionID int64) error {
	if s.PinFn != nil {
		return s.PinFn(ctx, userID, auctionID)
	}
	return nil
}

func (s AuctionFacadeStub) Unpin(ctx context.Context, userID, auctionID int64) error {
	if s.UnpinFn != nil {
		return s.UnpinFn(ctx, userID, auctionID)
	}
	return nil
}

func (s AuctionFacadeStub) Pinned(ctx context.Context, userID int64) ([]model.AuctionView, error) {
	if s.PinnedFn != nil {
		return s.PinnedFn(ctx, userID)
	}
	return nil, nil
}

// BidFacadeStub simulates bidding.
type BidFacadeStub struct {
	PlaceFn func(context.Context, int64, int64, decimal.Decimal) (*model.Bid, error)
	BidsFn  func(context.Context, int64) ([]model.Bid, error)
}

// PlaceBid accepts every bid unless overridden.
func (s BidFacadeStub) PlaceBid(ctx context.Context, auctionID, bidderID int64, amount decimal.Decimal) (*model.Bid, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, auctionID, bidderID, amount)
	}
	return &model.Bid{ID: 1, AuctionID: auctionID, BidderID: bidderID, Amount: amount}, nil
}

func (s BidFacadeStub) Bids(ctx context.Context, auctionID int64) ([]model.Bid, error) {
	if s.BidsFn != nil {
		return s.BidsFn(ctx, auctionID)
	}
	return nil, nil
}

// InboxFacadeStub simulates inbox reads.
type InboxFacadeStub struct {
	InboxFn    func(context.Context, int64) (*model.Inbox, error)
	MarkReadFn func(context.Context, int64) error
}

func (s InboxFacadeStub) Inbox(ctx context.Context, userID int64) (*model.Inbox, error) {
	if s.InboxFn != nil {
		return s.InboxFn(ctx, userID)
	}
	return &model.Inbox{UserID: userID}, nil
}

func (s InboxFacadeStub) MarkInboxRead(ctx context.Context, userID int64) error {
	if s.MarkReadFn != nil {
		return s.MarkReadFn(ctx, userID)
	}
	return nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	OrdersFn   func(context.Context, int64) ([]model.Order, error)
	InvoiceFn  func(context.Context, int64, string) (*model.Order, *model.Invoice, error)
	MarkPaidFn func(context.Context, int64, string) (*model.Order, error)
}

// Orders returns predefined orders for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{Number: "ORDER0000001", RecipientID: userID}}, nil
}

// Invoice returns an empty invoice of the requested order unless overridden.
func (s OrderFacadeStub) Invoice(ctx context.Context, userID int64, number string) (*model.Order, *model.Invoice, error) {
	if s.InvoiceFn != nil {
		return s.InvoiceFn(ctx, userID, number)
	}
	return &model.Order{Number: number, RecipientID: userID, InvoiceReady: true}, &model.Invoice{TotalCost: decimal.Zero}, nil
}

func (s OrderFacadeStub) MarkPaid(ctx context.Context, userID int64, number string) (*model.Order, error) {
	if s.MarkPaidFn != nil {
		return s.MarkPaidFn(ctx, userID, number)
	}
	return &model.Order{Number: number, SenderID: userID, InvoiceReady: true, InvoicePaid: true}, nil
}

// HealthFacadeStub reports the configured health error.
type HealthFacadeStub struct {
	HealthErr error
}

func (s HealthFacadeStub) Health(context.Context) error {
	return s.HealthErr
}

// AuctionHouseFacadeStub aggregates facade dependencies for HTTP layer tests.
type AuctionHouseFacadeStub struct {
	AuthFacadeStub
	AuctionFacadeStub
	BidFacadeStub
	InboxFacadeStub
	OrderFacadeStub
	HealthFacadeStub
}

// SettlementFacadeStub mimics scheduler interactions with the settlement use case.
type SettlementFacadeStub struct {
	Pending    []model.PendingSettlement
	PendingErr error
	SettleFn   func(context.Context, int64) (*model.Settlement, error)

	mu      sync.Mutex
	settled []int64
}

// PendingSettlements returns the configured deadlines.
func (s *SettlementFacadeStub) PendingSettlements(context.Context) ([]model.PendingSettlement, error) {
	if s.PendingErr != nil {
		return nil, s.PendingErr
	}
	return s.Pending, nil
}

// Settle records the call and delegates to SettleFn when set.
func (s *SettlementFacadeStub) Settle(ctx context.Context, auctionID int64) (*model.Settlement, error) {
	s.mu.Lock()
	s.settled = append(s.settled, auctionID)
	s.mu.Unlock()
	if s.SettleFn != nil {
		return s.SettleFn(ctx, auctionID)
	}
	return &model.Settlement{AuctionID: auctionID, Outcome: model.SettlementNoSale}, nil
}

// Settled returns auction ids passed to Settle so far.
func (s *SettlementFacadeStub) Settled() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.settled...)
}

// ScheduledCall is one recorded ScheduleSettlement invocation.
type ScheduledCall struct {
	AuctionID int64
	At        time.Time
}

// SchedulerStub records settlement deadlines.
type SchedulerStub struct {
	mu    sync.Mutex
	calls []ScheduledCall
}

func (s *SchedulerStub) ScheduleSettlement(auctionID int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, ScheduledCall{AuctionID: auctionID, At: at})
}

func (s *SchedulerStub) Calls() []ScheduledCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ScheduledCall(nil), s.calls...)
}

// HealthCheckerStub stands in for the store health check.
type HealthCheckerStub struct {
	Err error
}

func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}
