package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAuctionStateTransitions(t *testing.T) {
	cases := []struct {
		from, to AuctionState
		allowed  bool
	}{
		{AuctionStateActive, AuctionStateSettling, true},
		{AuctionStateSettling, AuctionStateSettled, true},
		{AuctionStateActive, AuctionStateSettled, false},
		{AuctionStateSettling, AuctionStateActive, false},
		{AuctionStateSettled, AuctionStateActive, false},
		{AuctionStateSettled, AuctionStateSettling, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			if got := tc.from.CanTransition(tc.to); got != tc.allowed {
				t.Fatalf("expected %v, got %v", tc.allowed, got)
			}
		})
	}
}

func TestAuctionAcceptsBidsAt(t *testing.T) {
	end := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := &Auction{State: AuctionStateActive, EndTime: end}

	if !a.AcceptsBidsAt(end.Add(-time.Second)) {
		t.Fatal("expected bids before end time")
	}
	if a.AcceptsBidsAt(end) {
		t.Fatal("bids at end time must be rejected")
	}
	a.State = AuctionStateSettling
	if a.AcceptsBidsAt(end.Add(-time.Hour)) {
		t.Fatal("settling auction must reject bids")
	}
}

func TestMinimumNextBid(t *testing.T) {
	a := &Auction{HighestBid: decimal.RequireFromString("10.00"), MinBidIncrement: decimal.RequireFromString("1.00")}
	if !a.MinimumNextBid().Equal(decimal.RequireFromString("11")) {
		t.Fatalf("unexpected minimum %s", a.MinimumNextBid())
	}
}

func TestInvoiceTotal(t *testing.T) {
	items := []InvoiceItem{
		{Quantity: 1, Price: decimal.RequireFromString("15.00")},
		{Quantity: 3, Price: decimal.RequireFromString("2.50")},
	}
	if got := InvoiceTotal(items); !got.Equal(decimal.RequireFromString("22.50")) {
		t.Fatalf("unexpected total %s", got)
	}
	if got := InvoiceTotal(nil); !got.IsZero() {
		t.Fatalf("empty invoice must total zero, got %s", got)
	}
}

func TestAuctionQueryNormalize(t *testing.T) {
	q := AuctionQuery{Sort: "random", Page: 0, PageSize: 1000}.Normalize()
	if q.Sort != SortNewest || q.Page != 1 || q.PageSize != MaxPageSize {
		t.Fatalf("unexpected normalized query: %+v", q)
	}
	q = AuctionQuery{Page: 3}.Normalize()
	if q.PageSize != DefaultPageSize || q.Offset() != 10 {
		t.Fatalf("unexpected paging: %+v offset=%d", q, q.Offset())
	}
}

func TestWholeCents(t *testing.T) {
	cases := map[string]bool{
		"10":      true,
		"10.5":    true,
		"10.01":   true,
		"10.000":  true,
		"10.0071": false,
		"0.004":   false,
		"-3.999":  false,
	}
	for in, want := range cases {
		if got := WholeCents(decimal.RequireFromString(in)); got != want {
			t.Fatalf("WholeCents(%s)=%v want %v", in, got, want)
		}
	}
}

func TestOrderInvolves(t *testing.T) {
	o := &Order{SenderID: 1, RecipientID: 2}
	if !o.Involves(1) || !o.Involves(2) || o.Involves(3) {
		t.Fatal("unexpected involvement result")
	}
}
