package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
)

func TestInboxWithoutMessages(t *testing.T) {
	f := newFixture(t)
	inbox, err := f.inbox.Inbox(context.Background(), 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inbox.UserID != 99 || inbox.UnreadCount != 0 || len(inbox.Messages) != 0 {
		t.Fatalf("expected empty inbox, got %+v", inbox)
	}
	if err := f.inbox.MarkRead(context.Background(), 99); err != nil {
		t.Fatalf("mark read of missing inbox must be a no-op, got %v", err)
	}
}

func TestInboxNotifyAndMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.inbox.Notify(ctx, userX, "first", ""); err != nil {
		t.Fatalf("notify returned error: %v", err)
	}
	f.clock.Advance(time.Minute)
	if err := f.inbox.Notify(ctx, userX, "second", "/somewhere"); err != nil {
		t.Fatalf("notify returned error: %v", err)
	}
	if got := f.store.Calls("inboxes.Ensure"); got != 2 {
		t.Fatalf("expected ensure on every notify, got %d", got)
	}

	inbox, err := f.inbox.Inbox(ctx, userX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inbox.UnreadCount != 2 {
		t.Fatalf("expected 2 unread, got %d", inbox.UnreadCount)
	}
	if len(inbox.Messages) != 2 || inbox.Messages[0].Content != "second" || inbox.Messages[1].Content != "first" {
		t.Fatalf("expected newest first, got %+v", inbox.Messages)
	}
	if inbox.Messages[1].Redirect != nil {
		t.Fatalf("empty redirect must be stored as nil")
	}
	if r := inbox.Messages[0].Redirect; r == nil || *r != "/somewhere" {
		t.Fatalf("unexpected redirect %v", r)
	}

	if err := f.inbox.MarkRead(ctx, userX); err != nil {
		t.Fatalf("mark read returned error: %v", err)
	}
	inbox, _ = f.inbox.Inbox(ctx, userX)
	if inbox.UnreadCount != 0 || len(inbox.Messages) != 2 {
		t.Fatalf("mark read must keep messages and reset counter, got %+v", inbox)
	}
}

func TestInboxProvisionIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.inbox.Provision(ctx, userX); err != nil {
		t.Fatalf("provision returned error: %v", err)
	}
	if err := f.inbox.Provision(ctx, userX); err != nil {
		t.Fatalf("second provision returned error: %v", err)
	}
	if err := f.inbox.Notify(ctx, userX, "hello", ""); err != nil {
		t.Fatalf("notify returned error: %v", err)
	}
	if got := len(f.messages(t, userX)); got != 1 {
		t.Fatalf("expected one message, got %d", got)
	}
}

func TestInboxNotifyAppendFailureRollsBackInbox(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Fail = func(op string) error {
		if op == "inboxes.Append" {
			return domainErrors.ErrTransient
		}
		return nil
	}
	err := f.inbox.Notify(ctx, userY, "lost", "")
	if !errors.Is(err, domainErrors.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	f.store.Fail = nil

	if _, err := f.store.Inboxes().Get(ctx, userY); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("inbox creation must be rolled back, got %v", err)
	}
}
