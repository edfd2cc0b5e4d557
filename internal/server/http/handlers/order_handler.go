package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/jmcastano/payflow/internal/domain/errors"
	"github.com/jmcastano/payflow/internal/server/http/dto"
)

// OrderHandler serves order lookups for the polling client.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// GetByID handles GET /api/orders/:id.
func (h *OrderHandler) GetByID(c *gin.Context) {
	order, err := h.facade.OrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// GetByWompiID handles GET /api/orders/by-wompi-id/:wompiId.
func (h *OrderHandler) GetByWompiID(c *gin.Context) {
	order, err := h.facade.OrderByGatewayTransactionID(c.Request.Context(), c.Param("wompiId"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}
