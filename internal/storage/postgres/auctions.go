package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
)

const auctionColumns = `id, seller_id, title, description, starting_price, min_bid_increment,
       duration_seconds, end_time, highest_bid, highest_bidder_id, state, visible, version, created_at`

const auctionColumnsJoined = `a.id, a.seller_id, a.title, a.description, a.starting_price, a.min_bid_increment,
       a.duration_seconds, a.end_time, a.highest_bid, a.highest_bidder_id, a.state, a.visible, a.version, a.created_at`

var auctionOrderBy = map[model.AuctionSort]string{
	model.SortNewest:     "created_at DESC, id DESC",
	model.SortEndingSoon: "end_time ASC, id ASC",
	model.SortPriceAsc:   "highest_bid ASC, id ASC",
	model.SortPriceDesc:  "highest_bid DESC, id DESC",
}

type auctionRepository struct {
	storage *Storage
}

func scanAuction(row rowScanner) (*model.Auction, error) {
	var (
		a        model.Auction
		duration int64
	)
	err := row.Scan(&a.ID, &a.SellerID, &a.Title, &a.Description, &a.StartingPrice, &a.MinBidIncrement,
		&duration, &a.EndTime, &a.HighestBid, &a.HighestBidderID, &a.State, &a.Visible, &a.Version, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Duration = time.Duration(duration) * time.Second
	return &a, nil
}

func (r *auctionRepository) Create(ctx context.Context, a *model.Auction) (*model.Auction, error) {
	const query = `INSERT INTO auctions
                   (seller_id, title, description, starting_price, min_bid_increment, duration_seconds,
                    end_time, highest_bid, state, visible)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                   RETURNING id, version, created_at`
	created := *a
	err := r.storage.conn(ctx).QueryRow(ctx, query,
		a.SellerID, a.Title, a.Description, a.StartingPrice, a.MinBidIncrement, int64(a.Duration/time.Second),
		a.EndTime, a.HighestBid, a.State, a.Visible,
	).Scan(&created.ID, &created.Version, &created.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

func (r *auctionRepository) GetByID(ctx context.Context, id int64) (*model.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id=$1`
	a, err := scanAuction(r.storage.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domainErrors.ErrAuctionNotFound)
	}
	return a, nil
}

func (r *auctionRepository) GetForUpdate(ctx context.Context, id int64) (*model.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id=$1 FOR UPDATE`
	a, err := scanAuction(r.storage.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domainErrors.ErrAuctionNotFound)
	}
	return a, nil
}

func (r *auctionRepository) List(ctx context.Context, q model.AuctionQuery) ([]model.Auction, error) {
	q = q.Normalize()
	query := fmt.Sprintf(`SELECT %s FROM auctions
                   WHERE visible AND ($1 = '' OR title ILIKE '%%' || $1 || '%%' ESCAPE '\')
                   ORDER BY %s LIMIT $2 OFFSET $3`, auctionColumns, auctionOrderBy[q.Sort])
	return r.queryAuctions(ctx, query, escapeLike(q.Title), q.PageSize, q.Offset())
}

func (r *auctionRepository) queryAuctions(ctx context.Context, query string, args ...any) ([]model.Auction, error) {
	rows, err := r.storage.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (r *auctionRepository) UpdateHighestBid(ctx context.Context, id, expectedVersion int64, amount decimal.Decimal, bidderID int64) error {
	const query = `UPDATE auctions
                   SET highest_bid=$1, highest_bidder_id=$2, version=version+1
                   WHERE id=$3 AND version=$4 AND state='ACTIVE' AND highest_bid < $1`
	tag, err := r.storage.conn(ctx).Exec(ctx, query, amount, bidderID, id, expectedVersion)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update highest bid of auction %d: %w", id, domainErrors.ErrConflict)
	}
	return nil
}

func (r *auctionRepository) TransitionState(ctx context.Context, id int64, from, to model.AuctionState) (bool, error) {
	if !from.CanTransition(to) {
		return false, fmt.Errorf("transition %s -> %s: %w", from, to, domainErrors.ErrInvariantViolation)
	}
	const query = `UPDATE auctions SET state=$1 WHERE id=$2 AND state=$3`
	tag, err := r.storage.conn(ctx).Exec(ctx, query, to, id, from)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *auctionRepository) ListUnsettled(ctx context.Context) ([]model.PendingSettlement, error) {
	const query = `SELECT id, end_time, state FROM auctions
                   WHERE state IN ('ACTIVE', 'SETTLING') ORDER BY end_time`
	rows, err := r.storage.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.PendingSettlement
	for rows.Next() {
		var p model.PendingSettlement
		if err := rows.Scan(&p.AuctionID, &p.EndTime, &p.State); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(s))
}

type pinRepository struct {
	storage *Storage
}

func (r *pinRepository) Pin(ctx context.Context, auctionID, userID int64) error {
	const query = `INSERT INTO auction_pins (auction_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.storage.conn(ctx).Exec(ctx, query, auctionID, userID); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *pinRepository) Unpin(ctx context.Context, auctionID, userID int64) error {
	const query = `DELETE FROM auction_pins WHERE auction_id=$1 AND user_id=$2`
	if _, err := r.storage.conn(ctx).Exec(ctx, query, auctionID, userID); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *pinRepository) ListPinned(ctx context.Context, userID int64) ([]model.Auction, error) {
	query := `SELECT ` + auctionColumnsJoined + `
                   FROM auctions a JOIN auction_pins p ON p.auction_id = a.id
                   WHERE p.user_id=$1 ORDER BY a.end_time ASC, a.id ASC`
	return (&auctionRepository{storage: r.storage}).queryAuctions(ctx, query, userID)
}

type bidRepository struct {
	storage *Storage
}

func (r *bidRepository) Insert(ctx context.Context, bid *model.Bid) (*model.Bid, error) {
	const query = `INSERT INTO bids (auction_id, bidder_id, amount) VALUES ($1, $2, $3) RETURNING id, created_at`
	stored := *bid
	err := r.storage.conn(ctx).QueryRow(ctx, query, bid.AuctionID, bid.BidderID, bid.Amount).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &stored, nil
}

func (r *bidRepository) ListByAuction(ctx context.Context, auctionID int64) ([]model.Bid, error) {
	const query = `SELECT id, auction_id, bidder_id, amount, created_at
                   FROM bids WHERE auction_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.storage.conn(ctx).Query(ctx, query, auctionID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.Bid
	for rows.Next() {
		var b model.Bid
		if err := rows.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}
