package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAuctionRequest describes a new listing. Duration uses Go duration
// syntax, for example "72h"; empty means the default.
type CreateAuctionRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	StartingPrice   decimal.Decimal `json:"starting_price"`
	MinBidIncrement decimal.Decimal `json:"min_bid_increment"`
	Duration        string          `json:"duration,omitempty"`
	Hidden          bool            `json:"hidden,omitempty"`
}

// AuctionResponse is a public view of an auction.
type AuctionResponse struct {
	ID              int64           `json:"id"`
	SellerID        int64           `json:"seller_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	StartingPrice   decimal.Decimal `json:"starting_price"`
	MinBidIncrement decimal.Decimal `json:"min_bid_increment"`
	HighestBid      decimal.Decimal `json:"highest_bid"`
	HighestBidderID *int64          `json:"highest_bidder_id,omitempty"`
	EndTime         time.Time       `json:"end_time"`
	State           string          `json:"state"`
}

// PlaceBidRequest carries the offered amount.
type PlaceBidRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// BidResponse describes an accepted bid.
type BidResponse struct {
	ID        int64           `json:"id"`
	AuctionID int64           `json:"auction_id"`
	BidderID  int64           `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}
