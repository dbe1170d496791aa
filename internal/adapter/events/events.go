// Package events publishes auction domain events to subscribers outside the process.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types.
const (
	TypeBidAccepted    = "bid.accepted"
	TypeAuctionSettled = "auction.settled"
)

// Event is the JSON payload published for every accepted bid and settlement.
type Event struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	AuctionID  int64            `json:"auction_id"`
	UserID     *int64           `json:"user_id,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Outcome    string           `json:"outcome,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewEvent stamps a fresh event id.
func NewEvent(eventType string, auctionID int64, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		AuctionID:  auctionID,
		OccurredAt: at,
	}
}

// Subject returns the subject an event is routed to.
func (e Event) Subject() string {
	switch e.Type {
	case TypeBidAccepted:
		return fmt.Sprintf("auction.%d.bid", e.AuctionID)
	case TypeAuctionSettled:
		return fmt.Sprintf("auction.%d.settled", e.AuctionID)
	default:
		return fmt.Sprintf("auction.%d.%s", e.AuctionID, e.Type)
	}
}

// Publisher delivers events. Delivery is best effort: callers log failures and move on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type natsConn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes events to NATS core subjects.
type NATSPublisher struct {
	conn   natsConn
	logger *slog.Logger
}

// NewNATSPublisher wraps an established connection.
func NewNATSPublisher(conn natsConn, logger *slog.Logger) *NATSPublisher {
	return &NATSPublisher{conn: conn, logger: logger}
}

func (p *NATSPublisher) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	subject := event.Subject()
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.logger.Debug("event published", "subject", subject, "event_id", event.ID)
	return nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
