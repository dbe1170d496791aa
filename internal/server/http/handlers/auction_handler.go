package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/server/http/dto"
)

// AuctionHandler serves auction listing, creation and pins.
type AuctionHandler struct {
	facade AuctionFacade
}

// NewAuctionHandler constructs AuctionHandler.
func NewAuctionHandler(facade AuctionFacade) *AuctionHandler {
	return &AuctionHandler{facade: facade}
}

// List handles GET /api/auctions.
func (h *AuctionHandler) List(c *gin.Context) {
	query := model.AuctionQuery{
		Title: c.Query("title"),
		Sort:  model.AuctionSort(c.Query("sort")),
	}
	var err error
	if raw := c.Query("page"); raw != "" {
		if query.Page, err = strconv.Atoi(raw); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
	}
	if raw := c.Query("page_size"); raw != "" {
		if query.PageSize, err = strconv.Atoi(raw); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
	}

	auctions, err := h.facade.Auctions(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuctionResponses(auctions))
}

// Get handles GET /api/auctions/:id.
func (h *AuctionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.facade.Auction(c.Request.Context(), CurrentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuctionResponse(*view))
}

// Create handles POST /api/auctions.
func (h *AuctionHandler) Create(c *gin.Context) {
	var req dto.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	in := model.NewAuction{
		Title:           req.Title,
		Description:     req.Description,
		StartingPrice:   req.StartingPrice,
		MinBidIncrement: req.MinBidIncrement,
		Hidden:          req.Hidden,
	}
	if req.Duration != "" {
		d, err := time.ParseDuration(req.Duration)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		in.Duration = d
	}

	auction, err := h.facade.CreateAuction(c.Request.Context(), CurrentUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAuctionResponse(auction.View()))
}

// Pin handles POST /api/auctions/:id/pin.
func (h *AuctionHandler) Pin(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.Pin(c.Request.Context(), CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unpin handles DELETE /api/auctions/:id/pin.
func (h *AuctionHandler) Unpin(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.Unpin(c.Request.Context(), CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Pinned handles GET /api/user/pinned.
func (h *AuctionHandler) Pinned(c *gin.Context) {
	auctions, err := h.facade.Pinned(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(auctions) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toAuctionResponses(auctions))
}

func toAuctionResponse(v model.AuctionView) dto.AuctionResponse {
	return dto.AuctionResponse{
		ID:              v.ID,
		SellerID:        v.SellerID,
		Title:           v.Title,
		Description:     v.Description,
		StartingPrice:   v.StartingPrice,
		MinBidIncrement: v.MinBidIncrement,
		HighestBid:      v.HighestBid,
		HighestBidderID: v.HighestBidderID,
		EndTime:         v.EndTime,
		State:           string(v.State),
	}
}

func toAuctionResponses(views []model.AuctionView) []dto.AuctionResponse {
	response := make([]dto.AuctionResponse, 0, len(views))
	for _, v := range views {
		response = append(response, toAuctionResponse(v))
	}
	return response
}
