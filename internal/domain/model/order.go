package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order records the sale produced by a settled auction.
type Order struct {
	ID           int64
	AuctionID    int64
	Number       string
	SenderID     int64
	RecipientID  int64
	Complete     bool
	InvoiceReady bool
	InvoicePaid  bool
	CreatedAt    time.Time
}

// Involves reports whether the user is a party of the order.
func (o *Order) Involves(userID int64) bool {
	return o.SenderID == userID || o.RecipientID == userID
}

// Invoice belongs to exactly one order.
type Invoice struct {
	ID        int64
	OrderID   int64
	TotalCost decimal.Decimal
	CreatedAt time.Time
	Items     []InvoiceItem
}

// InvoiceItem is a single line of an invoice.
type InvoiceItem struct {
	ID          int64
	InvoiceID   int64
	Description string
	Quantity    int
	Price       decimal.Decimal
}

// Subtotal is price multiplied by quantity.
func (i InvoiceItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// InvoiceTotal sums the subtotals of all items.
func InvoiceTotal(items []InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// SettlementOutcome tells what a settlement run did.
type SettlementOutcome string

const (
	SettlementSold           SettlementOutcome = "SOLD"
	SettlementNoSale         SettlementOutcome = "NO_SALE"
	SettlementAlreadySettled SettlementOutcome = "ALREADY_SETTLED"
)

// Settlement summarizes a settlement run.
type Settlement struct {
	AuctionID int64
	Outcome   SettlementOutcome
	Order     *Order
	Invoice   *Invoice
}
