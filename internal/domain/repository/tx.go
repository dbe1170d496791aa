package repository

import "context"

// Transactor runs fn inside a single store transaction. Repository calls made
// with the ctx passed to fn join that transaction; nested calls reuse it.
//
// WithinSavepoint runs fn inside the open transaction of ctx under a
// savepoint: when fn fails only its own writes are undone and the outer
// transaction stays usable. Without an open transaction it behaves like
// WithinTransaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error
}
