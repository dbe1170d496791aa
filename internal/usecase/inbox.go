package usecase

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/domain/repository"
)

// InboxUseCase delivers notifications to user inboxes.
type InboxUseCase struct {
	tx      repository.Transactor
	inboxes repository.InboxRepository
}

// NewInboxUseCase constructs InboxUseCase.
func NewInboxUseCase(tx repository.Transactor, inboxes repository.InboxRepository) *InboxUseCase {
	return &InboxUseCase{tx: tx, inboxes: inboxes}
}

// Notify appends a message to the recipient's inbox, creating the inbox on
// first use. It joins the caller's transaction when ctx carries one.
func (u *InboxUseCase) Notify(ctx context.Context, recipientID int64, content, redirect string) error {
	var ref *string
	if redirect != "" {
		ref = &redirect
	}
	return u.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		inbox, err := u.inboxes.Ensure(ctx, recipientID)
		if err != nil {
			return fmt.Errorf("ensure inbox of user %d: %w", recipientID, err)
		}
		if _, err := u.inboxes.Append(ctx, inbox.ID, content, ref); err != nil {
			return fmt.Errorf("append to inbox %d: %w", inbox.ID, err)
		}
		return nil
	})
}

// Provision creates the inbox of a newly registered user.
func (u *InboxUseCase) Provision(ctx context.Context, userID int64) error {
	_, err := u.inboxes.Ensure(ctx, userID)
	return err
}

// Inbox returns the user's inbox with messages newest first. Users without an
// inbox get an empty one.
func (u *InboxUseCase) Inbox(ctx context.Context, userID int64) (*model.Inbox, error) {
	inbox, err := u.inboxes.Get(ctx, userID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return &model.Inbox{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	messages, err := u.inboxes.ListMessages(ctx, inbox.ID)
	if err != nil {
		return nil, err
	}
	inbox.Messages = messages
	return inbox, nil
}

// MarkRead resets the unread counter.
func (u *InboxUseCase) MarkRead(ctx context.Context, userID int64) error {
	err := u.inboxes.ResetUnread(ctx, userID)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return nil
	}
	return err
}
