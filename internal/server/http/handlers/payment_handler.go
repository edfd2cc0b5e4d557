package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmcastano/payflow/internal/adapter/wompi"
	domainErrors "github.com/jmcastano/payflow/internal/domain/errors"
	"github.com/jmcastano/payflow/internal/server/http/dto"
	"github.com/jmcastano/payflow/internal/usecase"
)

// PaymentHandler initiates card transactions.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Create handles POST /api/create-wompi-transaction.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	outcome, err := h.facade.CreateTransaction(c.Request.Context(), req.ProductID, usecase.DeliveryDetails{
		Name:          req.DeliveryInfo.Name,
		Address:       req.DeliveryInfo.Address,
		City:          req.DeliveryInfo.City,
		Phone:         req.DeliveryInfo.Phone,
		CustomerEmail: req.DeliveryInfo.CustomerEmail,
		Card: wompi.Card{
			Number:   req.DeliveryInfo.CardNumber,
			CVC:      req.DeliveryInfo.CVC,
			ExpMonth: req.DeliveryInfo.ExpMonth,
			ExpYear:  req.DeliveryInfo.ExpYear,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create transaction"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.CreateTransactionResponse{
		Message:            "transaction created",
		RedirectURLBase:    outcome.RedirectURL,
		WompiTransactionID: outcome.GatewayTransactionID,
	})
}
