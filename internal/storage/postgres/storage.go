package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

type txKey struct{}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Auctions() repository.AuctionRepository {
	return &auctionRepository{storage: s}
}

func (s *Storage) Bids() repository.BidRepository {
	return &bidRepository{storage: s}
}

func (s *Storage) Pins() repository.PinRepository {
	return &pinRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Invoices() repository.InvoiceRepository {
	return &invoiceRepository{storage: s}
}

func (s *Storage) Inboxes() repository.InboxRepository {
	return &inboxRepository{storage: s}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS inboxes (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT UNIQUE NOT NULL REFERENCES users(id),
            unread_count INTEGER NOT NULL DEFAULT 0
        )`,
	`CREATE TABLE IF NOT EXISTS inbox_messages (
            id BIGSERIAL PRIMARY KEY,
            inbox_id BIGINT NOT NULL REFERENCES inboxes(id) ON DELETE CASCADE,
            content TEXT NOT NULL,
            redirect TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS auctions (
            id BIGSERIAL PRIMARY KEY,
            seller_id BIGINT NOT NULL REFERENCES users(id),
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            starting_price NUMERIC(12,2) NOT NULL CHECK (starting_price >= 0),
            min_bid_increment NUMERIC(12,2) NOT NULL CHECK (min_bid_increment > 0),
            duration_seconds BIGINT NOT NULL,
            end_time TIMESTAMPTZ NOT NULL,
            highest_bid NUMERIC(12,2) NOT NULL,
            highest_bidder_id BIGINT REFERENCES users(id),
            state TEXT NOT NULL DEFAULT 'ACTIVE',
            visible BOOLEAN NOT NULL DEFAULT TRUE,
            version BIGINT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CHECK (highest_bid >= starting_price)
        )`,
	`CREATE TABLE IF NOT EXISTS bids (
            id BIGSERIAL PRIMARY KEY,
            auction_id BIGINT NOT NULL REFERENCES auctions(id),
            bidder_id BIGINT NOT NULL REFERENCES users(id),
            amount NUMERIC(12,2) NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS auction_pins (
            auction_id BIGINT NOT NULL REFERENCES auctions(id),
            user_id BIGINT NOT NULL REFERENCES users(id),
            PRIMARY KEY (auction_id, user_id)
        )`,
	`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            auction_id BIGINT UNIQUE NOT NULL REFERENCES auctions(id),
            number TEXT UNIQUE NOT NULL,
            sender_id BIGINT NOT NULL REFERENCES users(id),
            recipient_id BIGINT NOT NULL REFERENCES users(id),
            complete BOOLEAN NOT NULL DEFAULT FALSE,
            invoice_ready BOOLEAN NOT NULL DEFAULT FALSE,
            invoice_paid BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS invoices (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT UNIQUE NOT NULL REFERENCES orders(id),
            total_cost NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (total_cost >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
	`CREATE TABLE IF NOT EXISTS invoice_items (
            id BIGSERIAL PRIMARY KEY,
            invoice_id BIGINT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
            description TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            price NUMERIC(12,2) NOT NULL CHECK (price >= 0)
        )`,
	`CREATE INDEX IF NOT EXISTS idx_auctions_unsettled ON auctions(state, end_time)`,
	`CREATE INDEX IF NOT EXISTS idx_bids_auction ON bids(auction_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_inbox_messages_inbox ON inbox_messages(inbox_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_sender ON orders(sender_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_recipient ON orders(recipient_id, created_at DESC)`,
}

func (s *Storage) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// conn returns the transaction bound to ctx, or the pool when there is none.
func (s *Storage) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.pool
}

// WithinTransaction executes fn inside a transaction boundary. Calls nested in
// an already open transaction join it instead of starting a new one.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapError(err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Warn("transaction rollback failed", slog.String("error", rbErr.Error()))
			}
			return
		}
		err = mapError(tx.Commit(ctx))
	}()

	err = fn(context.WithValue(ctx, txKey{}, tx))
	return err
}

// WithinSavepoint executes fn under a savepoint of the transaction carried by
// ctx, or in a new transaction when there is none.
func (s *Storage) WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok {
		return s.WithinTransaction(ctx, fn)
	}

	if _, err := tx.Exec(ctx, "SAVEPOINT nested"); err != nil {
		return mapError(err)
	}
	if err := fn(ctx); err != nil {
		if _, rbErr := tx.Exec(ctx, "ROLLBACK TO SAVEPOINT nested"); rbErr != nil {
			return fmt.Errorf("rollback to savepoint: %w", mapError(rbErr))
		}
		return err
	}
	if _, err := tx.Exec(ctx, "RELEASE SAVEPOINT nested"); err != nil {
		return mapError(err)
	}
	return nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return mapError(s.pool.Ping(ctx))
}

// mapError translates driver errors into the domain error taxonomy.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domainErrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return fmt.Errorf("%w: %s", domainErrors.ErrAlreadyExists, pgErr.ConstraintName)
		case pgErr.Code == "23503":
			return fmt.Errorf("%w: %s", domainErrors.ErrNotFound, pgErr.ConstraintName)
		case pgErr.Code == "23514", pgErr.Code == "22003":
			return fmt.Errorf("%w: %s", domainErrors.ErrValidation, pgErr.Message)
		case pgErr.Code == "40001", pgErr.Code == "40P01", pgErr.Code == "55P03":
			return fmt.Errorf("%w: %w", domainErrors.ErrConflict, err)
		case len(pgErr.Code) == 5 && pgErr.Code[:2] == "08", pgErr.Code == "57P01", pgErr.Code == "53300":
			return fmt.Errorf("%w: %w", domainErrors.ErrTransient, err)
		}
		return err
	}

	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %w", domainErrors.ErrTransient, err)
	}
	return err
}

// notFound maps pgx.ErrNoRows to the given domain error and everything else through mapError.
func notFound(err error, target error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return target
	}
	return mapError(err)
}
