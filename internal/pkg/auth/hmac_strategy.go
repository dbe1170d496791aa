package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/polkiloo/auctionhouse/internal/pkg/clock"
)

var ErrInvalidToken = errors.New("invalid auth token")

const (
	tokenVersion = "ah1"
	defaultTTL   = 24 * time.Hour
)

var tokenEncoding = base64.RawURLEncoding

// HMACStrategy signs tokens of the form payload.signature, both parts
// base64url encoded, so tokens travel safely in cookies and headers.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.System{}
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl, clock: clk}
}

// IssueToken generates signed auth token for the user.
func (s *HMACStrategy) IssueToken(userID int64) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("issue token for user %d: %w", userID, ErrInvalidToken)
	}
	now := s.clock.Now()
	payload := strings.Join([]string{
		tokenVersion,
		strconv.FormatInt(userID, 10),
		strconv.FormatInt(now.Unix(), 10),
		strconv.FormatInt(now.Add(s.ttl).Unix(), 10),
	}, "|")
	return tokenEncoding.EncodeToString([]byte(payload)) + "." + tokenEncoding.EncodeToString(s.sign(payload)), nil
}

// ParseToken validates token and returns encoded user ID.
func (s *HMACStrategy) ParseToken(token string) (int64, error) {
	claims, err := s.ParseClaims(token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// ParseClaims verifies the signature and expiry of token.
func (s *HMACStrategy) ParseClaims(token string) (Claims, error) {
	encodedPayload, encodedSig, ok := strings.Cut(token, ".")
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	rawPayload, err := tokenEncoding.DecodeString(encodedPayload)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	sig, err := tokenEncoding.DecodeString(encodedSig)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	payload := string(rawPayload)
	if !hmac.Equal(sig, s.sign(payload)) {
		return Claims{}, ErrInvalidToken
	}

	parts := strings.Split(payload, "|")
	if len(parts) != 4 || parts[0] != tokenVersion {
		return Claims{}, ErrInvalidToken
	}
	var fields [3]int64
	for i, raw := range parts[1:] {
		if fields[i], err = strconv.ParseInt(raw, 10, 64); err != nil {
			return Claims{}, ErrInvalidToken
		}
	}
	claims := Claims{
		UserID:    fields[0],
		IssuedAt:  time.Unix(fields[1], 0).UTC(),
		ExpiresAt: time.Unix(fields[2], 0).UTC(),
	}
	if claims.UserID <= 0 || !s.clock.Now().Before(claims.ExpiresAt) {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac"
}

func (s *HMACStrategy) sign(payload string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
