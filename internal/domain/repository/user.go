package repository

import (
	"context"

	"github.com/polkiloo/auctionhouse/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.User, error)
	GetByLogin(ctx context.Context, login string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// InboxRepository stores per-user notifications.
type InboxRepository interface {
	// Ensure returns the user's inbox, creating it when missing.
	Ensure(ctx context.Context, userID int64) (*model.Inbox, error)
	// Append stores a message and increments the unread counter.
	Append(ctx context.Context, inboxID int64, content string, redirect *string) (*model.InboxMessage, error)
	Get(ctx context.Context, userID int64) (*model.Inbox, error)
	ListMessages(ctx context.Context, inboxID int64) ([]model.InboxMessage, error)
	ResetUnread(ctx context.Context, userID int64) error
}
