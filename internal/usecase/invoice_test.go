package usecase

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
)

func newOrderWithInvoice(t *testing.T, f *fixture) (*model.Order, *model.Invoice) {
	t.Helper()
	ctx := context.Background()
	a := f.listAuction(t, seller, "10.00", "1.00")
	order, err := f.store.Orders().Create(ctx, &model.Order{
		AuctionID: a.ID, Number: "INVOICE00001", SenderID: seller, RecipientID: userX, Complete: true,
	})
	require.NoError(t, err)
	invoice, err := f.invoices.CreateInvoice(ctx, order.ID)
	require.NoError(t, err)
	return order, invoice
}

func storedTotal(t *testing.T, f *fixture, orderID int64) decimal.Decimal {
	t.Helper()
	invoice, err := f.invoices.Invoice(context.Background(), orderID)
	require.NoError(t, err)
	require.True(t, invoice.TotalCost.Equal(model.InvoiceTotal(invoice.Items)),
		"total %s does not match items %s", invoice.TotalCost, model.InvoiceTotal(invoice.Items))
	return invoice.TotalCost
}

func TestCreateInvoiceFlipsReadyAndNotifies(t *testing.T) {
	f := newFixture(t)
	order, invoice := newOrderWithInvoice(t, f)

	require.True(t, invoice.TotalCost.IsZero())
	stored, err := f.store.Orders().GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.True(t, stored.InvoiceReady)

	msgs := f.messages(t, userX)
	require.Len(t, msgs, 1)
	require.Equal(t, "/invoice/INVOICE00001", *msgs[0].Redirect)

	_, err = f.invoices.CreateInvoice(context.Background(), order.ID)
	require.ErrorIs(t, err, domainErrors.ErrAlreadyExists)
	require.Len(t, f.messages(t, userX), 1, "failed creation must not notify")
}

func TestCreateInvoiceUnknownOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.invoices.CreateInvoice(context.Background(), 42)
	require.ErrorIs(t, err, domainErrors.ErrOrderNotFound)
}

func TestInvoiceItemMutationsKeepTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, invoice := newOrderWithInvoice(t, f)

	lamp, err := f.invoices.AddItem(ctx, invoice.ID, "Lamp", 2, money("15.00"))
	require.NoError(t, err)
	require.True(t, storedTotal(t, f, order.ID).Equal(money("30")))

	shipping, err := f.invoices.AddItem(ctx, invoice.ID, "Shipping", 1, money("4.99"))
	require.NoError(t, err)
	require.True(t, storedTotal(t, f, order.ID).Equal(money("34.99")))

	lamp.Quantity = 3
	require.NoError(t, f.invoices.UpdateItem(ctx, *lamp))
	require.True(t, storedTotal(t, f, order.ID).Equal(money("49.99")))

	require.NoError(t, f.invoices.RemoveItem(ctx, shipping.ID))
	require.True(t, storedTotal(t, f, order.ID).Equal(money("45")))

	require.NoError(t, f.invoices.RemoveItem(ctx, lamp.ID))
	require.True(t, storedTotal(t, f, order.ID).IsZero())
}

func TestInvoiceTotalRandomMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, invoice := newOrderWithInvoice(t, f)
	rng := rand.New(rand.NewSource(7))

	var live []model.InvoiceItem
	for step := 0; step < 60; step++ {
		price := decimal.New(int64(rng.Intn(10000)), -2)
		quantity := rng.Intn(5) + 1
		switch op := rng.Intn(3); {
		case op == 0 || len(live) == 0:
			item, err := f.invoices.AddItem(ctx, invoice.ID, "item", quantity, price)
			require.NoError(t, err)
			live = append(live, *item)
		case op == 1:
			i := rng.Intn(len(live))
			live[i].Quantity = quantity
			live[i].Price = price
			require.NoError(t, f.invoices.UpdateItem(ctx, live[i]))
		default:
			i := rng.Intn(len(live))
			require.NoError(t, f.invoices.RemoveItem(ctx, live[i].ID))
			live = append(live[:i], live[i+1:]...)
		}
		require.True(t, storedTotal(t, f, order.ID).Equal(model.InvoiceTotal(live)), "step %d", step)
	}
}

func TestInvoiceItemValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, invoice := newOrderWithInvoice(t, f)

	_, err := f.invoices.AddItem(ctx, invoice.ID, "Lamp", 0, money("1"))
	require.ErrorIs(t, err, domainErrors.ErrInvalidAmount)
	_, err = f.invoices.AddItem(ctx, invoice.ID, "Lamp", 1, money("-1"))
	require.ErrorIs(t, err, domainErrors.ErrInvalidAmount)
	_, err = f.invoices.AddItem(ctx, invoice.ID, " ", 1, money("1"))
	require.ErrorIs(t, err, domainErrors.ErrInvalidAmount)
	_, err = f.invoices.AddItem(ctx, invoice.ID, "Lamp", 1, money("1.005"))
	require.ErrorIs(t, err, domainErrors.ErrInvalidAmount)
	_, err = f.invoices.AddItem(ctx, invoice.ID, "Lamp", 1, money("1.500"))
	require.NoError(t, err, "trailing zeros are whole cents")
	require.ErrorIs(t, f.invoices.UpdateItem(ctx, model.InvoiceItem{ID: 1, Description: "x", Quantity: -1}), domainErrors.ErrInvalidAmount)

	_, err = f.invoices.AddItem(ctx, 999, "Lamp", 1, money("1"))
	require.ErrorIs(t, err, domainErrors.ErrInvoiceNotFound)
	require.ErrorIs(t, f.invoices.RemoveItem(ctx, 999), domainErrors.ErrNotFound)
}

func TestInvoiceSetTotalFailureRollsBackItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, invoice := newOrderWithInvoice(t, f)

	f.store.Fail = func(op string) error {
		if op == "invoices.SetTotal" {
			return domainErrors.ErrTransient
		}
		return nil
	}
	_, err := f.invoices.AddItem(ctx, invoice.ID, "Lamp", 1, money("5"))
	require.ErrorIs(t, err, domainErrors.ErrTransient)
	f.store.Fail = nil

	loaded, err := f.invoices.Invoice(ctx, order.ID)
	require.NoError(t, err)
	require.Empty(t, loaded.Items)
	require.True(t, loaded.TotalCost.IsZero())
}

func TestDeleteInvoiceClearsReadyFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, invoice := newOrderWithInvoice(t, f)
	_, err := f.invoices.AddItem(ctx, invoice.ID, "Lamp", 1, money("5"))
	require.NoError(t, err)

	require.NoError(t, f.invoices.DeleteInvoice(ctx, invoice.ID))

	stored, err := f.store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.False(t, stored.InvoiceReady)
	_, err = f.invoices.Invoice(ctx, order.ID)
	require.ErrorIs(t, err, domainErrors.ErrInvoiceNotFound)
	require.ErrorIs(t, f.invoices.DeleteInvoice(ctx, invoice.ID), domainErrors.ErrInvoiceNotFound)
}

func TestInvoiceForOrderAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, invoice := newOrderWithInvoice(t, f)
	_, err := f.invoices.AddItem(ctx, invoice.ID, "Lamp", 1, money("5"))
	require.NoError(t, err)

	for _, user := range []int64{seller, userX} {
		gotOrder, gotInvoice, err := f.invoices.InvoiceForOrder(ctx, user, order.Number)
		require.NoError(t, err)
		require.Equal(t, order.ID, gotOrder.ID)
		require.Len(t, gotInvoice.Items, 1)
	}

	_, _, err = f.invoices.InvoiceForOrder(ctx, userY, order.Number)
	require.ErrorIs(t, err, domainErrors.ErrOrderNotFound)
	_, _, err = f.invoices.InvoiceForOrder(ctx, userX, "UNKNOWN")
	require.ErrorIs(t, err, domainErrors.ErrNotFound)
}
