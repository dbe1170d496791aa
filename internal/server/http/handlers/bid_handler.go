package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/server/http/dto"
)

// BidHandler accepts bids and exposes bid history.
type BidHandler struct {
	facade BidFacade
}

// NewBidHandler constructs BidHandler.
func NewBidHandler(facade BidFacade) *BidHandler {
	return &BidHandler{facade: facade}
}

// Place handles POST /api/auctions/:id/bids.
func (h *BidHandler) Place(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	bid, err := h.facade.PlaceBid(c.Request.Context(), auctionID, CurrentUserID(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBidResponse(*bid))
}

// List handles GET /api/auctions/:id/bids.
func (h *BidHandler) List(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	bids, err := h.facade.Bids(c.Request.Context(), auctionID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.BidResponse, 0, len(bids))
	for _, b := range bids {
		response = append(response, toBidResponse(b))
	}
	c.JSON(http.StatusOK, response)
}

func toBidResponse(b model.Bid) dto.BidResponse {
	return dto.BidResponse{
		ID:        b.ID,
		AuctionID: b.AuctionID,
		BidderID:  b.BidderID,
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt,
	}
}
