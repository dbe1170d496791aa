package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/user/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}

	c.JSON(http.StatusOK, response)
}

// Invoice handles GET /api/orders/:number/invoice.
func (h *OrderHandler) Invoice(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))
	order, invoice, err := h.facade.Invoice(c.Request.Context(), CurrentUserID(c), number)
	if err != nil {
		respondError(c, err)
		return
	}

	response := dto.InvoiceResponse{
		Order:     toOrderResponse(*order),
		TotalCost: invoice.TotalCost,
		CreatedAt: invoice.CreatedAt,
		Items:     make([]dto.InvoiceItemResponse, 0, len(invoice.Items)),
	}
	for _, item := range invoice.Items {
		response.Items = append(response.Items, dto.InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal(),
		})
	}
	c.JSON(http.StatusOK, response)
}

// MarkPaid handles POST /api/orders/:number/paid.
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))
	order, err := h.facade.MarkPaid(c.Request.Context(), CurrentUserID(c), number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		Number:       order.Number,
		AuctionID:    order.AuctionID,
		SenderID:     order.SenderID,
		RecipientID:  order.RecipientID,
		Complete:     order.Complete,
		InvoiceReady: order.InvoiceReady,
		InvoicePaid:  order.InvoicePaid,
		CreatedAt:    order.CreatedAt,
	}
}
