package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
)

const orderColumns = `id, auction_id, number, sender_id, recipient_id, complete, invoice_ready, invoice_paid, created_at`

type orderRepository struct {
	storage *Storage
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.AuctionID, &o.Number, &o.SenderID, &o.RecipientID, &o.Complete, &o.InvoiceReady, &o.InvoicePaid, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (auction_id, number, sender_id, recipient_id, complete, invoice_ready)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id, invoice_paid, created_at`
	created := *order
	err := r.storage.conn(ctx).QueryRow(ctx, query,
		order.AuctionID, order.Number, order.SenderID, order.RecipientID, order.Complete, order.InvoiceReady,
	).Scan(&created.ID, &created.InvoicePaid, &created.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

func (r *orderRepository) GetByAuction(ctx context.Context, auctionID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE auction_id=$1`
	o, err := scanOrder(r.storage.conn(ctx).QueryRow(ctx, query, auctionID))
	if err != nil {
		return nil, notFound(err, domainErrors.ErrOrderNotFound)
	}
	return o, nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE number=$1`
	o, err := scanOrder(r.storage.conn(ctx).QueryRow(ctx, query, number))
	if err != nil {
		return nil, notFound(err, domainErrors.ErrOrderNotFound)
	}
	return o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	o, err := scanOrder(r.storage.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domainErrors.ErrOrderNotFound)
	}
	return o, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + `
                   FROM orders WHERE sender_id=$1 OR recipient_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.storage.conn(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (r *orderRepository) SetInvoiceReady(ctx context.Context, orderID int64, ready bool) error {
	const query = `UPDATE orders SET invoice_ready=$1 WHERE id=$2`
	tag, err := r.storage.conn(ctx).Exec(ctx, query, ready, orderID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) SetInvoicePaid(ctx context.Context, orderID int64) error {
	const query = `UPDATE orders SET invoice_paid=TRUE WHERE id=$1`
	tag, err := r.storage.conn(ctx).Exec(ctx, query, orderID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrOrderNotFound
	}
	return nil
}

type invoiceRepository struct {
	storage *Storage
}

func (r *invoiceRepository) Create(ctx context.Context, orderID int64) (*model.Invoice, error) {
	const query = `INSERT INTO invoices (order_id) VALUES ($1) RETURNING id, total_cost, created_at`
	inv := model.Invoice{OrderID: orderID}
	if err := r.storage.conn(ctx).QueryRow(ctx, query, orderID).Scan(&inv.ID, &inv.TotalCost, &inv.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &inv, nil
}

func (r *invoiceRepository) GetByOrder(ctx context.Context, orderID int64) (*model.Invoice, error) {
	const query = `SELECT id, order_id, total_cost, created_at FROM invoices WHERE order_id=$1`
	var inv model.Invoice
	err := r.storage.conn(ctx).QueryRow(ctx, query, orderID).Scan(&inv.ID, &inv.OrderID, &inv.TotalCost, &inv.CreatedAt)
	if err != nil {
		return nil, notFound(err, domainErrors.ErrInvoiceNotFound)
	}
	return &inv, nil
}

func (r *invoiceRepository) GetForUpdate(ctx context.Context, id int64) (*model.Invoice, error) {
	const query = `SELECT id, order_id, total_cost, created_at FROM invoices WHERE id=$1 FOR UPDATE`
	var inv model.Invoice
	err := r.storage.conn(ctx).QueryRow(ctx, query, id).Scan(&inv.ID, &inv.OrderID, &inv.TotalCost, &inv.CreatedAt)
	if err != nil {
		return nil, notFound(err, domainErrors.ErrInvoiceNotFound)
	}
	return &inv, nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM invoices WHERE id=$1`
	tag, err := r.storage.conn(ctx).Exec(ctx, query, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepository) SetTotal(ctx context.Context, id int64, total decimal.Decimal) error {
	const query = `UPDATE invoices SET total_cost=$1 WHERE id=$2`
	tag, err := r.storage.conn(ctx).Exec(ctx, query, total, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepository) AddItem(ctx context.Context, item *model.InvoiceItem) (*model.InvoiceItem, error) {
	const query = `INSERT INTO invoice_items (invoice_id, description, quantity, price) VALUES ($1, $2, $3, $4) RETURNING id`
	stored := *item
	err := r.storage.conn(ctx).QueryRow(ctx, query, item.InvoiceID, item.Description, item.Quantity, item.Price).Scan(&stored.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return &stored, nil
}

func (r *invoiceRepository) GetItem(ctx context.Context, itemID int64) (*model.InvoiceItem, error) {
	const query = `SELECT id, invoice_id, description, quantity, price FROM invoice_items WHERE id=$1`
	var it model.InvoiceItem
	err := r.storage.conn(ctx).QueryRow(ctx, query, itemID).Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.Price)
	if err != nil {
		return nil, notFound(err, domainErrors.ErrNotFound)
	}
	return &it, nil
}

func (r *invoiceRepository) UpdateItem(ctx context.Context, item *model.InvoiceItem) error {
	const query = `UPDATE invoice_items SET description=$1, quantity=$2, price=$3 WHERE id=$4`
	tag, err := r.storage.conn(ctx).Exec(ctx, query, item.Description, item.Quantity, item.Price, item.ID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) DeleteItem(ctx context.Context, itemID int64) error {
	const query = `DELETE FROM invoice_items WHERE id=$1`
	tag, err := r.storage.conn(ctx).Exec(ctx, query, itemID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *invoiceRepository) ListItems(ctx context.Context, invoiceID int64) ([]model.InvoiceItem, error) {
	const query = `SELECT id, invoice_id, description, quantity, price FROM invoice_items WHERE invoice_id=$1 ORDER BY id`
	rows, err := r.storage.conn(ctx).Query(ctx, query, invoiceID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.InvoiceItem
	for rows.Next() {
		var it model.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}
