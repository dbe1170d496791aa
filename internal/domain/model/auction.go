package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionState describes settlement lifecycle of an auction.
type AuctionState string

const (
	AuctionStateActive   AuctionState = "ACTIVE"
	AuctionStateSettling AuctionState = "SETTLING"
	AuctionStateSettled  AuctionState = "SETTLED"
)

// DefaultAuctionDuration is applied when the seller does not provide one.
const DefaultAuctionDuration = 7 * 24 * time.Hour

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s AuctionState) CanTransition(next AuctionState) bool {
	switch s {
	case AuctionStateActive:
		return next == AuctionStateSettling
	case AuctionStateSettling:
		return next == AuctionStateSettled
	default:
		return false
	}
}

// Auction is a listed item that accepts bids until EndTime.
type Auction struct {
	ID              int64
	SellerID        int64
	Title           string
	Description     string
	StartingPrice   decimal.Decimal
	MinBidIncrement decimal.Decimal
	Duration        time.Duration
	EndTime         time.Time
	HighestBid      decimal.Decimal
	HighestBidderID *int64
	State           AuctionState
	Visible         bool
	Version         int64
	CreatedAt       time.Time
}

// MinimumNextBid returns the lowest amount the next bid may carry.
func (a *Auction) MinimumNextBid() decimal.Decimal {
	return a.HighestBid.Add(a.MinBidIncrement)
}

// AcceptsBidsAt reports whether bids are allowed at the given instant.
func (a *Auction) AcceptsBidsAt(now time.Time) bool {
	return a.State == AuctionStateActive && now.Before(a.EndTime)
}

// View returns the read projection exposed to clients.
func (a *Auction) View() AuctionView {
	return AuctionView{
		ID:              a.ID,
		SellerID:        a.SellerID,
		Title:           a.Title,
		Description:     a.Description,
		StartingPrice:   a.StartingPrice,
		MinBidIncrement: a.MinBidIncrement,
		HighestBid:      a.HighestBid,
		HighestBidderID: a.HighestBidderID,
		EndTime:         a.EndTime,
		State:           a.State,
	}
}

// AuctionView is a read-only projection of an auction.
type AuctionView struct {
	ID              int64
	SellerID        int64
	Title           string
	Description     string
	StartingPrice   decimal.Decimal
	MinBidIncrement decimal.Decimal
	HighestBid      decimal.Decimal
	HighestBidderID *int64
	EndTime         time.Time
	State           AuctionState
}

// NewAuction carries seller input for auction creation.
type NewAuction struct {
	Title           string
	Description     string
	StartingPrice   decimal.Decimal
	MinBidIncrement decimal.Decimal
	Duration        time.Duration
	Hidden          bool
}

// AuctionSort selects ordering of auction listings.
type AuctionSort string

const (
	SortNewest     AuctionSort = "newest"
	SortEndingSoon AuctionSort = "ending_soon"
	SortPriceAsc   AuctionSort = "price_asc"
	SortPriceDesc  AuctionSort = "price_desc"
)

// Valid reports whether s is a known sort order.
func (s AuctionSort) Valid() bool {
	switch s {
	case SortNewest, SortEndingSoon, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// AuctionQuery filters and paginates auction listings.
type AuctionQuery struct {
	Title    string
	Sort     AuctionSort
	Page     int
	PageSize int
}

// Normalize fills defaults and clamps pagination.
func (q AuctionQuery) Normalize() AuctionQuery {
	if !q.Sort.Valid() {
		q.Sort = SortNewest
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// Offset returns number of rows to skip for the current page.
func (q AuctionQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// PendingSettlement is an entry of the durable deadline index.
type PendingSettlement struct {
	AuctionID int64
	EndTime   time.Time
	State     AuctionState
}
