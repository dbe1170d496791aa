package test

import (
	"context"

	pkgAuth "github.com/polkiloo/auctionhouse/internal/pkg/auth"
)

// HasherStub hashes by prefixing "hash:" and keeps the bcrypt input limit.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	if len(password) > 72 {
		return "", pkgAuth.ErrPasswordTooLong
	}
	return "hash:" + password, nil
}

func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return pkgAuth.ErrPasswordMismatch
	}
	return nil
}

// StrategyStub issues the fixed token "token" for every bidder and resolves
// any token to bidder 1 unless overridden.
type StrategyStub struct {
	IssueFn func(int64) (string, error)
	ParseFn func(string) (int64, error)
}

func (s StrategyStub) IssueToken(userID int64) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(userID)
	}
	return "token", nil
}

func (s StrategyStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

func (StrategyStub) Name() string { return "stub" }

// TokenParserStub resolves bearer tokens for the auth middleware.
type TokenParserStub struct {
	ID      int64
	Err     error
	ParseFn func(string) (int64, error)
}

func (s TokenParserStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return 0, s.Err
	}
	return s.ID, nil
}

// AuthFacadeStub answers register and login with the token "token".
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (int64, error)
}

func (s AuthFacadeStub) Register(ctx context.Context, login, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password)
	}
	return "token", nil
}

func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

var (
	_ pkgAuth.PasswordHasher = HasherStub{}
	_ pkgAuth.Strategy       = StrategyStub{}
)
