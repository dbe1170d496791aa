package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatus(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrAuctionInactive),
		errors.Is(err, domainErrors.ErrConflict),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the status of a domain error. Client errors carry the
// message; internal ones do not.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
