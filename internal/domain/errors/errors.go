package errors

import (
	"errors"
	"fmt"
	"time"
)

// Categories. Callers branch on these with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("concurrent modification")
	ErrTransient          = errors.New("store temporarily unavailable")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrAlreadyExists      = errors.New("already exists")
)

var (
	ErrAuctionNotFound = fmt.Errorf("auction %w", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("order %w", ErrNotFound)
	ErrInvoiceNotFound = fmt.Errorf("invoice %w", ErrNotFound)

	ErrBidTooLow          = fmt.Errorf("bid too low: %w", ErrValidation)
	ErrAuctionInactive    = fmt.Errorf("auction is not accepting bids: %w", ErrValidation)
	ErrInvalidIncrement   = fmt.Errorf("minimum bid increment must be positive: %w", ErrValidation)
	ErrInvalidAmount      = fmt.Errorf("invalid amount: %w", ErrValidation)
	ErrSelfBid            = fmt.Errorf("seller cannot bid on own auction: %w", ErrValidation)
	ErrInvalidAuction     = fmt.Errorf("invalid auction: %w", ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrValidation)
	ErrForbidden          = fmt.Errorf("operation not permitted: %w", ErrValidation)

	// ErrSettlementNotDue is returned when settlement is attempted before the stored end time.
	ErrSettlementNotDue = errors.New("settlement not due")
)

// NotDueError is returned for a settlement attempted before the auction ends.
// It matches ErrSettlementNotDue.
type NotDueError struct {
	AuctionID int64
	EndTime   time.Time
}

func (e *NotDueError) Error() string {
	return fmt.Sprintf("%s: auction %d ends at %s", ErrSettlementNotDue, e.AuctionID, e.EndTime.Format(time.RFC3339))
}

func (e *NotDueError) Is(target error) bool {
	return target == ErrSettlementNotDue
}
