package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/auctionhouse/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create fails with errors.ErrAlreadyExists when the auction already has an order.
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByAuction(ctx context.Context, auctionID int64) (*model.Order, error)
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	SetInvoiceReady(ctx context.Context, orderID int64, ready bool) error
	SetInvoicePaid(ctx context.Context, orderID int64) error
}

// InvoiceRepository persists invoices and their items.
type InvoiceRepository interface {
	Create(ctx context.Context, orderID int64) (*model.Invoice, error)
	GetByOrder(ctx context.Context, orderID int64) (*model.Invoice, error)
	// GetForUpdate locks the invoice row so item mutations on it are serialized.
	GetForUpdate(ctx context.Context, id int64) (*model.Invoice, error)
	Delete(ctx context.Context, id int64) error
	SetTotal(ctx context.Context, id int64, total decimal.Decimal) error

	AddItem(ctx context.Context, item *model.InvoiceItem) (*model.InvoiceItem, error)
	GetItem(ctx context.Context, itemID int64) (*model.InvoiceItem, error)
	UpdateItem(ctx context.Context, item *model.InvoiceItem) error
	DeleteItem(ctx context.Context, itemID int64) error
	ListItems(ctx context.Context, invoiceID int64) ([]model.InvoiceItem, error)
}
