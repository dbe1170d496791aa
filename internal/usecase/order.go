package usecase

import (
	"context"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/domain/repository"
)

// OrderUseCase exposes orders to their parties.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// ListByUser returns orders the user sells or buys, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// MarkPaid records an external payment confirmation. Only the seller may confirm.
func (u *OrderUseCase) MarkPaid(ctx context.Context, actorID int64, number string) (*model.Order, error) {
	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if !order.Involves(actorID) {
		return nil, domainErrors.ErrOrderNotFound
	}
	if order.SenderID != actorID {
		return nil, domainErrors.ErrForbidden
	}
	if !order.InvoiceReady {
		return nil, domainErrors.ErrInvoiceNotFound
	}
	if order.InvoicePaid {
		return order, nil
	}
	if err := u.orders.SetInvoicePaid(ctx, order.ID); err != nil {
		return nil, err
	}
	order.InvoicePaid = true
	return order, nil
}
