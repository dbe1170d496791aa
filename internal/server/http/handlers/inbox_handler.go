package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/auctionhouse/internal/server/http/dto"
)

// InboxHandler exposes the authenticated user's notifications.
type InboxHandler struct {
	facade InboxFacade
}

func NewInboxHandler(facade InboxFacade) *InboxHandler {
	return &InboxHandler{facade: facade}
}

// Get handles GET /api/user/inbox.
func (h *InboxHandler) Get(c *gin.Context) {
	inbox, err := h.facade.Inbox(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response := dto.InboxResponse{
		UnreadCount: inbox.UnreadCount,
		Messages:    make([]dto.InboxMessageResponse, 0, len(inbox.Messages)),
	}
	for _, m := range inbox.Messages {
		response.Messages = append(response.Messages, dto.InboxMessageResponse{
			ID:        m.ID,
			Content:   m.Content,
			Redirect:  m.Redirect,
			CreatedAt: m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// MarkRead handles POST /api/user/inbox/read.
func (h *InboxHandler) MarkRead(c *gin.Context) {
	if err := h.facade.MarkInboxRead(c.Request.Context(), CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
