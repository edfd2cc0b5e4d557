package dto

import (
	"time"

	"github.com/jmcastano/payflow/internal/domain/model"
)

// OrderResponse is the full order record exposed to the polling client.
type OrderResponse struct {
	ID                 string            `json:"id"`
	ProductID          string            `json:"product_id"`
	AmountInCents      int64             `json:"amount_in_cents"`
	Status             string            `json:"status"`
	WompiTransactionID *string           `json:"wompi_transaction_id"`
	CustomerEmail      *string           `json:"customer_email"`
	Metadata           map[string]string `json:"metadata"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// ToOrderResponse maps the domain order onto the wire format.
func ToOrderResponse(order *model.Order) OrderResponse {
	return OrderResponse{
		ID:                 order.ID,
		ProductID:          order.ProductID,
		AmountInCents:      order.AmountInCents,
		Status:             string(order.Status),
		WompiTransactionID: order.GatewayTransactionID,
		CustomerEmail:      order.CustomerEmail,
		Metadata:           order.Metadata,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}
