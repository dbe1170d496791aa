package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/auctionhouse/internal/config"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
	testhelpers "github.com/polkiloo/auctionhouse/internal/test"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type sequentialNumbers struct {
	n atomic.Int64
}

func (g *sequentialNumbers) Generate() (string, error) {
	return fmt.Sprintf("ORDER%07d", g.n.Add(1)), nil
}

type fixture struct {
	store     *testhelpers.MemoryStore
	clock     *clock.Manual
	publisher *testhelpers.PublisherStub

	inbox      *InboxUseCase
	auctions   *AuctionUseCase
	bids       *BidUseCase
	lifecycle  *LifecycleUseCase
	invoices   *InvoiceUseCase
	settlement *SettlementUseCase
	orders     *OrderUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testhelpers.NewMemoryStore()
	clk := clock.NewManual(baseTime)
	store.Now = clk.Now
	publisher := &testhelpers.PublisherStub{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := &config.Config{BidRetryAttempts: 3}

	inbox := NewInboxUseCase(store, store.Inboxes())
	lifecycle := NewLifecycleUseCase(store.Auctions(), clk)
	invoices := NewInvoiceUseCase(store, store.Orders(), store.Invoices(), inbox)

	return &fixture{
		store:      store,
		clock:      clk,
		publisher:  publisher,
		inbox:      inbox,
		auctions:   NewAuctionUseCase(store.Auctions(), store.Pins(), clk),
		bids:       NewBidUseCase(store, store.Auctions(), store.Bids(), store.Pins(), inbox, publisher, clk, cfg, logger),
		lifecycle:  lifecycle,
		invoices:   invoices,
		settlement: NewSettlementUseCase(store, store.Auctions(), store.Orders(), lifecycle, invoices, inbox, &sequentialNumbers{}, publisher, clk, logger),
		orders:     NewOrderUseCase(store.Orders()),
	}
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// listAuction creates a one hour auction sold by seller.
func (f *fixture) listAuction(t *testing.T, seller int64, starting, increment string) *model.Auction {
	t.Helper()
	a, err := f.auctions.Create(context.Background(), seller, model.NewAuction{
		Title:           "Brass lamp",
		StartingPrice:   money(starting),
		MinBidIncrement: money(increment),
		Duration:        time.Hour,
	})
	if err != nil {
		t.Fatalf("create auction: %v", err)
	}
	return a
}

func (f *fixture) auction(t *testing.T, id int64) *model.Auction {
	t.Helper()
	a, err := f.store.Auctions().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load auction %d: %v", id, err)
	}
	return a
}

func (f *fixture) messages(t *testing.T, userID int64) []model.InboxMessage {
	t.Helper()
	inbox, err := f.inbox.Inbox(context.Background(), userID)
	if err != nil {
		t.Fatalf("load inbox of %d: %v", userID, err)
	}
	return inbox.Messages
}
