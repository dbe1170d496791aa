package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
)

type userRepository struct {
	storage *Storage
}

func (r *userRepository) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var u model.User
	err := r.storage.conn(ctx).QueryRow(ctx, query, login, passwordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	u.Login = login
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.conn(ctx).QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, domainErrors.ErrNotFound)
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.conn(ctx).QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, domainErrors.ErrNotFound)
	}
	return &u, nil
}

type inboxRepository struct {
	storage *Storage
}

func (r *inboxRepository) Ensure(ctx context.Context, userID int64) (*model.Inbox, error) {
	const insert = `INSERT INTO inboxes (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.storage.conn(ctx).Exec(ctx, insert, userID); err != nil {
		return nil, mapError(err)
	}
	return r.Get(ctx, userID)
}

func (r *inboxRepository) Append(ctx context.Context, inboxID int64, content string, redirect *string) (*model.InboxMessage, error) {
	msg := model.InboxMessage{InboxID: inboxID, Content: content, Redirect: redirect}
	err := r.storage.WithinTransaction(ctx, func(ctx context.Context) error {
		const insert = `INSERT INTO inbox_messages (inbox_id, content, redirect) VALUES ($1, $2, $3) RETURNING id, created_at`
		if err := r.storage.conn(ctx).QueryRow(ctx, insert, inboxID, content, redirect).Scan(&msg.ID, &msg.CreatedAt); err != nil {
			return mapError(err)
		}
		const bump = `UPDATE inboxes SET unread_count = unread_count + 1 WHERE id=$1`
		tag, err := r.storage.conn(ctx).Exec(ctx, bump, inboxID)
		if err != nil {
			return mapError(err)
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *inboxRepository) Get(ctx context.Context, userID int64) (*model.Inbox, error) {
	const query = `SELECT id, user_id, unread_count FROM inboxes WHERE user_id=$1`
	var inbox model.Inbox
	err := r.storage.conn(ctx).QueryRow(ctx, query, userID).Scan(&inbox.ID, &inbox.UserID, &inbox.UnreadCount)
	if err != nil {
		return nil, notFound(err, domainErrors.ErrNotFound)
	}
	return &inbox, nil
}

func (r *inboxRepository) ListMessages(ctx context.Context, inboxID int64) ([]model.InboxMessage, error) {
	const query = `SELECT id, inbox_id, content, redirect, created_at
                   FROM inbox_messages WHERE inbox_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.storage.conn(ctx).Query(ctx, query, inboxID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.InboxMessage
	for rows.Next() {
		var m model.InboxMessage
		if err := rows.Scan(&m.ID, &m.InboxID, &m.Content, &m.Redirect, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (r *inboxRepository) ResetUnread(ctx context.Context, userID int64) error {
	const query = `UPDATE inboxes SET unread_count=0 WHERE user_id=$1`
	tag, err := r.storage.conn(ctx).Exec(ctx, query, userID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
