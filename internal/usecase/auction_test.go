package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
)

func TestAuctionCreateDefaults(t *testing.T) {
	f := newFixture(t)
	a, err := f.auctions.Create(context.Background(), seller, model.NewAuction{
		Title:           "  Oak chair ",
		Description:     " sturdy ",
		StartingPrice:   money("0"),
		MinBidIncrement: money("0.01"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Title != "Oak chair" || a.Description != "sturdy" {
		t.Fatalf("expected trimmed text, got %q %q", a.Title, a.Description)
	}
	if a.Duration != model.DefaultAuctionDuration || !a.EndTime.Equal(baseTime.Add(model.DefaultAuctionDuration)) {
		t.Fatalf("unexpected default duration %v end %v", a.Duration, a.EndTime)
	}
	if !a.HighestBid.Equal(a.StartingPrice) || a.HighestBidderID != nil {
		t.Fatalf("a new auction starts at its starting price without bidder")
	}
	if a.State != model.AuctionStateActive || !a.Visible || a.Version != 0 {
		t.Fatalf("unexpected initial state %+v", a)
	}
}

func TestAuctionCreateValidation(t *testing.T) {
	f := newFixture(t)
	valid := model.NewAuction{Title: "Lamp", StartingPrice: money("1"), MinBidIncrement: money("1")}

	cases := []struct {
		name   string
		mutate func(*model.NewAuction)
		want   error
	}{
		{"empty title", func(in *model.NewAuction) { in.Title = "   " }, domainErrors.ErrInvalidAuction},
		{"long title", func(in *model.NewAuction) { in.Title = strings.Repeat("a", maxTitleLength+1) }, domainErrors.ErrInvalidAuction},
		{"negative duration", func(in *model.NewAuction) { in.Duration = -time.Second }, domainErrors.ErrInvalidAuction},
		{"negative price", func(in *model.NewAuction) { in.StartingPrice = money("-1") }, domainErrors.ErrInvalidAmount},
		{"zero increment", func(in *model.NewAuction) { in.MinBidIncrement = money("0") }, domainErrors.ErrInvalidIncrement},
		{"negative increment", func(in *model.NewAuction) { in.MinBidIncrement = money("-0.5") }, domainErrors.ErrInvalidIncrement},
		{"sub-cent increment", func(in *model.NewAuction) { in.MinBidIncrement = money("0.004") }, domainErrors.ErrInvalidIncrement},
		{"sub-cent price", func(in *model.NewAuction) { in.StartingPrice = money("9.995") }, domainErrors.ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := f.auctions.Create(context.Background(), seller, in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected validation category, got %v", err)
			}
		})
	}
	if got := f.store.Calls("auctions.Create"); got != 0 {
		t.Fatalf("invalid input must not reach the store, got %d calls", got)
	}
}

func TestAuctionGetHidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.auctions.Create(ctx, seller, model.NewAuction{
		Title: "Draft", StartingPrice: money("1"), MinBidIncrement: money("1"), Hidden: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.auctions.Get(ctx, userX, a.ID); !errors.Is(err, domainErrors.ErrAuctionNotFound) {
		t.Fatalf("hidden auction must not be found by others, got %v", err)
	}
	view, err := f.auctions.Get(ctx, seller, a.ID)
	if err != nil || view.ID != a.ID {
		t.Fatalf("seller must see own hidden auction, got %+v %v", view, err)
	}

	list, err := f.auctions.List(ctx, model.AuctionQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("hidden auction must not be listed, got %d", len(list))
	}
}

func TestAuctionListSortFilterAndPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prices := map[string]string{"Red vase": "30", "Blue vase": "10", "Green lamp": "20", "Old vase": "40"}
	for _, title := range []string{"Red vase", "Blue vase", "Green lamp", "Old vase"} {
		if _, err := f.auctions.Create(ctx, seller, model.NewAuction{
			Title: title, StartingPrice: money(prices[title]), MinBidIncrement: money("1"), Duration: time.Hour,
		}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		f.clock.Advance(time.Minute)
	}

	titles := func(views []model.AuctionView) string {
		parts := make([]string, 0, len(views))
		for _, v := range views {
			parts = append(parts, v.Title)
		}
		return strings.Join(parts, ",")
	}

	cases := []struct {
		query model.AuctionQuery
		want  string
	}{
		{model.AuctionQuery{}, "Old vase,Green lamp,Blue vase,Red vase"},
		{model.AuctionQuery{Sort: model.SortPriceAsc}, "Blue vase,Green lamp,Red vase,Old vase"},
		{model.AuctionQuery{Sort: model.SortPriceDesc, Title: "VASE"}, "Old vase,Red vase,Blue vase"},
		{model.AuctionQuery{Sort: model.SortEndingSoon, PageSize: 2, Page: 2}, "Green lamp,Old vase"},
		{model.AuctionQuery{Page: 3, PageSize: 2}, ""},
		{model.AuctionQuery{Sort: "bogus", PageSize: 1}, "Old vase"},
	}
	for _, tc := range cases {
		list, err := f.auctions.List(ctx, tc.query)
		if err != nil {
			t.Fatalf("list %+v: %v", tc.query, err)
		}
		if got := titles(list); got != tc.want {
			t.Fatalf("list %+v: expected %q, got %q", tc.query, tc.want, got)
		}
	}
}

func TestAuctionPinning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.listAuction(t, seller, "10.00", "1.00")

	if err := f.auctions.Pin(ctx, userX, 404); !errors.Is(err, domainErrors.ErrAuctionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := f.auctions.Pin(ctx, userX, a.ID); err != nil {
			t.Fatalf("pin returned error: %v", err)
		}
	}
	pinned, err := f.auctions.Pinned(ctx, userX)
	if err != nil || len(pinned) != 1 {
		t.Fatalf("expected one pinned auction, got %d %v", len(pinned), err)
	}

	if err := f.auctions.Unpin(ctx, userX, a.ID); err != nil {
		t.Fatalf("unpin returned error: %v", err)
	}
	pinned, _ = f.auctions.Pinned(ctx, userX)
	if len(pinned) != 0 {
		t.Fatalf("expected no pinned auctions, got %d", len(pinned))
	}
}
