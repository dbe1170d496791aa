package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderResponse represents an order as seen by one of its parties.
type OrderResponse struct {
	Number       string    `json:"number"`
	AuctionID    int64     `json:"auction_id"`
	SenderID     int64     `json:"sender_id"`
	RecipientID  int64     `json:"recipient_id"`
	Complete     bool      `json:"complete"`
	InvoiceReady bool      `json:"invoice_ready"`
	InvoicePaid  bool      `json:"invoice_paid"`
	CreatedAt    time.Time `json:"created_at"`
}

// InvoiceItemResponse is one invoice line.
type InvoiceItemResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse bundles an order with its invoice.
type InvoiceResponse struct {
	Order     OrderResponse         `json:"order"`
	TotalCost decimal.Decimal       `json:"total_cost"`
	CreatedAt time.Time             `json:"created_at"`
	Items     []InvoiceItemResponse `json:"items"`
}
