package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domainErrors.ErrAuctionNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", domainErrors.ErrOrderNotFound), http.StatusNotFound},
		{fmt.Errorf("minimum is 11.00: %w", domainErrors.ErrBidTooLow), http.StatusUnprocessableEntity},
		{domainErrors.ErrSelfBid, http.StatusUnprocessableEntity},
		{domainErrors.ErrInvalidIncrement, http.StatusUnprocessableEntity},
		{domainErrors.ErrAuctionInactive, http.StatusConflict},
		{domainErrors.ErrConflict, http.StatusConflict},
		{domainErrors.ErrAlreadyExists, http.StatusConflict},
		{domainErrors.ErrForbidden, http.StatusForbidden},
		{domainErrors.ErrTransient, http.StatusInternalServerError},
		{domainErrors.ErrInvariantViolation, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
