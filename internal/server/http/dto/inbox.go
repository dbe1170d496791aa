package dto

import "time"

type InboxMessageResponse struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Redirect  *string   `json:"redirect,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type InboxResponse struct {
	UnreadCount int                    `json:"unread_count"`
	Messages    []InboxMessageResponse `json:"messages"`
}
