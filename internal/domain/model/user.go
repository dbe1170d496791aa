package model

import "time"

// User represents a registered participant who can sell and bid.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}

// Inbox collects notifications of one user.
type Inbox struct {
	ID          int64
	UserID      int64
	UnreadCount int
	Messages    []InboxMessage
}

// InboxMessage is an immutable notification.
type InboxMessage struct {
	ID        int64
	InboxID   int64
	Content   string
	Redirect  *string
	CreatedAt time.Time
}
