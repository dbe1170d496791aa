package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/auctionhouse/internal/config"
)

type connStub struct {
	subject string
	data    []byte
	err     error
}

func (c *connStub) Publish(subject string, data []byte) error {
	c.subject = subject
	c.data = data
	return c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestEventSubject(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := map[string]string{
		TypeBidAccepted:    "auction.5.bid",
		TypeAuctionSettled: "auction.5.settled",
		"custom":           "auction.5.custom",
	}
	for typ, want := range cases {
		if got := NewEvent(typ, 5, at).Subject(); got != want {
			t.Fatalf("subject for %s: got %q want %q", typ, got, want)
		}
	}
}

func TestNATSPublisherPublish(t *testing.T) {
	conn := &connStub{}
	pub := NewNATSPublisher(conn, discardLogger())

	bidder := int64(3)
	amount := decimal.RequireFromString("12.50")
	ev := NewEvent(TypeBidAccepted, 5, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ev.UserID = &bidder
	ev.Amount = &amount

	if err := pub.Publish(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conn.subject != "auction.5.bid" {
		t.Fatalf("unexpected subject %q", conn.subject)
	}

	var decoded Event
	if err := json.Unmarshal(conn.data, &decoded); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if decoded.ID != ev.ID || decoded.UserID == nil || *decoded.UserID != 3 || !decoded.Amount.Equal(amount) {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}

func TestNATSPublisherError(t *testing.T) {
	conn := &connStub{err: errors.New("closed")}
	pub := NewNATSPublisher(conn, discardLogger())

	err := pub.Publish(context.Background(), NewEvent(TypeAuctionSettled, 1, time.Now()))
	if err == nil || !errors.Is(err, conn.err) {
		t.Fatalf("expected wrapped publish error, got %v", err)
	}
}

func TestNewPublisherWithoutURL(t *testing.T) {
	pub, err := newPublisher(publisherParams{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    &config.Config{},
		Logger:    discardLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := pub.(NopPublisher); !ok {
		t.Fatalf("expected nop publisher, got %T", pub)
	}
	if err := pub.Publish(context.Background(), Event{}); err != nil {
		t.Fatalf("nop publisher returned %v", err)
	}
}

func TestNewPublisherConnectError(t *testing.T) {
	orig := natsConnect
	t.Cleanup(func() { natsConnect = orig })
	natsConnect = func(string, *slog.Logger) (*nats.Conn, error) {
		return nil, nats.ErrNoServers
	}

	_, err := newPublisher(publisherParams{
		Lifecycle: fxtest.NewLifecycle(t),
		Config:    &config.Config{NATSURL: "nats://127.0.0.1:1"},
		Logger:    discardLogger(),
	})
	if !errors.Is(err, nats.ErrNoServers) {
		t.Fatalf("expected no servers error, got %v", err)
	}
}
