package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/domain/repository"
)

const invoiceReadyMessage = "New invoice available (Click here)"

func invoiceRedirect(orderNumber string) string {
	return "/invoice/" + orderNumber
}

// InvoiceUseCase maintains invoices and keeps their totals equal to the sum
// of their items. Every mutation runs in one transaction and joins the
// caller's transaction when there is one.
type InvoiceUseCase struct {
	tx       repository.Transactor
	orders   repository.OrderRepository
	invoices repository.InvoiceRepository
	inbox    *InboxUseCase
}

// NewInvoiceUseCase constructs InvoiceUseCase.
func NewInvoiceUseCase(
	tx repository.Transactor,
	orders repository.OrderRepository,
	invoices repository.InvoiceRepository,
	inbox *InboxUseCase,
) *InvoiceUseCase {
	return &InvoiceUseCase{tx: tx, orders: orders, invoices: invoices, inbox: inbox}
}

// CreateInvoice creates the invoice of an order, marks the order's invoice as
// ready and tells the recipient about it.
func (u *InvoiceUseCase) CreateInvoice(ctx context.Context, orderID int64) (*model.Invoice, error) {
	var invoice *model.Invoice
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := u.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		invoice, err = u.invoices.Create(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("create invoice for order %s: %w", order.Number, err)
		}
		if err := u.orders.SetInvoiceReady(ctx, order.ID, true); err != nil {
			return err
		}
		return u.inbox.Notify(ctx, order.RecipientID, invoiceReadyMessage, invoiceRedirect(order.Number))
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func validateItem(description string, quantity int, price decimal.Decimal) error {
	if strings.TrimSpace(description) == "" || quantity <= 0 || price.IsNegative() || !model.WholeCents(price) {
		return domainErrors.ErrInvalidAmount
	}
	return nil
}

// AddItem appends an item and recomputes the invoice total.
func (u *InvoiceUseCase) AddItem(ctx context.Context, invoiceID int64, description string, quantity int, price decimal.Decimal) (*model.InvoiceItem, error) {
	if err := validateItem(description, quantity, price); err != nil {
		return nil, err
	}

	var item *model.InvoiceItem
	err := u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := u.invoices.GetForUpdate(ctx, invoiceID); err != nil {
			return err
		}
		var err error
		item, err = u.invoices.AddItem(ctx, &model.InvoiceItem{
			InvoiceID:   invoiceID,
			Description: description,
			Quantity:    quantity,
			Price:       price,
		})
		if err != nil {
			return err
		}
		return u.recomputeTotal(ctx, invoiceID)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem changes description, quantity and price of an item.
func (u *InvoiceUseCase) UpdateItem(ctx context.Context, item model.InvoiceItem) error {
	if err := validateItem(item.Description, item.Quantity, item.Price); err != nil {
		return err
	}
	return u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		stored, err := u.invoices.GetItem(ctx, item.ID)
		if err != nil {
			return err
		}
		if _, err := u.invoices.GetForUpdate(ctx, stored.InvoiceID); err != nil {
			return err
		}
		item.InvoiceID = stored.InvoiceID
		if err := u.invoices.UpdateItem(ctx, &item); err != nil {
			return err
		}
		return u.recomputeTotal(ctx, stored.InvoiceID)
	})
}

// RemoveItem deletes an item.
func (u *InvoiceUseCase) RemoveItem(ctx context.Context, itemID int64) error {
	return u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		stored, err := u.invoices.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if _, err := u.invoices.GetForUpdate(ctx, stored.InvoiceID); err != nil {
			return err
		}
		if err := u.invoices.DeleteItem(ctx, itemID); err != nil {
			return err
		}
		return u.recomputeTotal(ctx, stored.InvoiceID)
	})
}

// recomputeTotal must run with the invoice row locked.
func (u *InvoiceUseCase) recomputeTotal(ctx context.Context, invoiceID int64) error {
	items, err := u.invoices.ListItems(ctx, invoiceID)
	if err != nil {
		return err
	}
	total := model.InvoiceTotal(items)
	if total.IsNegative() {
		return fmt.Errorf("invoice %d total %s: %w", invoiceID, total.StringFixed(2), domainErrors.ErrInvariantViolation)
	}
	return u.invoices.SetTotal(ctx, invoiceID, total)
}

// DeleteInvoice removes an invoice and clears the order's invoice_ready flag.
func (u *InvoiceUseCase) DeleteInvoice(ctx context.Context, invoiceID int64) error {
	return u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		invoice, err := u.invoices.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := u.orders.SetInvoiceReady(ctx, invoice.OrderID, false); err != nil {
			return err
		}
		return u.invoices.Delete(ctx, invoiceID)
	})
}

// Invoice loads an invoice of an order together with its items.
func (u *InvoiceUseCase) Invoice(ctx context.Context, orderID int64) (*model.Invoice, error) {
	invoice, err := u.invoices.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items, err := u.invoices.ListItems(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return invoice, nil
}

// InvoiceForOrder returns the order and its invoice to one of the order's parties.
func (u *InvoiceUseCase) InvoiceForOrder(ctx context.Context, userID int64, number string) (*model.Order, *model.Invoice, error) {
	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, nil, err
	}
	if !order.Involves(userID) {
		return nil, nil, domainErrors.ErrOrderNotFound
	}
	invoice, err := u.Invoice(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return order, invoice, nil
}
