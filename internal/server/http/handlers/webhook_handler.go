package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/jmcastano/payflow/internal/domain/errors"
	"github.com/jmcastano/payflow/internal/server/http/dto"
)

// WebhookHandler receives asynchronous gateway events.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Receive handles POST /api/wompi-webhook. The gateway delivers events
// at least once and retries on non-2xx, so every verified event is
// acknowledged with 200 even when it changes nothing.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var req dto.WebhookEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.WebhookResponse{Message: "malformed event"})
		return
	}

	order, err := h.facade.ApplyWebhookEvent(c.Request.Context(), req.ToModel())
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrMalformedEvent):
			c.JSON(http.StatusBadRequest, dto.WebhookResponse{Message: "malformed event"})
		case errors.Is(err, domainErrors.ErrInvalidSignature):
			c.JSON(http.StatusUnauthorized, dto.WebhookResponse{Message: "invalid checksum"})
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.WebhookResponse{Message: "order not found"})
		default:
			// Covers a missing events secret as well as storage failures.
			c.JSON(http.StatusInternalServerError, dto.WebhookResponse{Message: "processing failed"})
		}
		return
	}

	if order == nil {
		c.JSON(http.StatusOK, dto.WebhookResponse{Message: "event ignored"})
		return
	}

	c.JSON(http.StatusOK, dto.WebhookResponse{Message: "event processed"})
}
