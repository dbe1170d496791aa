package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is an accepted offer. Bids are append-only.
type Bid struct {
	ID        int64
	AuctionID int64
	BidderID  int64
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// BidReceipt describes the outcome of an accepted bid.
type BidReceipt struct {
	Bid              Bid
	AuctionTitle     string
	PreviousBidderID *int64
}
