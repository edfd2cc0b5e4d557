package model

import "time"

// OrderStatus describes the payment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusApproved OrderStatus = "APPROVED"
	OrderStatusDeclined OrderStatus = "DECLINED"
	OrderStatusVoided   OrderStatus = "VOIDED"
	OrderStatusError    OrderStatus = "ERROR"
)

// NormalizeStatus maps a wire-format status string onto the closed enumeration.
// Unknown values collapse to ERROR instead of being stored verbatim.
func NormalizeStatus(raw string) OrderStatus {
	switch OrderStatus(raw) {
	case OrderStatusPending, OrderStatusApproved, OrderStatusDeclined, OrderStatusVoided, OrderStatusError:
		return OrderStatus(raw)
	default:
		return OrderStatusError
	}
}

// Terminal reports whether no further gateway updates are expected for the status.
func (s OrderStatus) Terminal() bool {
	return s != OrderStatusPending
}

// Order describes a purchase correlated with a gateway transaction. The ID is
// the caller-generated reference sent to the gateway; it never changes after
// creation and orders are never deleted.
type Order struct {
	ID                   string
	ProductID            string
	AmountInCents        int64
	Status               OrderStatus
	GatewayTransactionID *string
	CustomerEmail        *string
	Metadata             map[string]string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Delivery metadata keys stored in the order metadata bag.
const (
	MetaDeliveryName    = "deliveryName"
	MetaDeliveryAddress = "deliveryAddress"
	MetaDeliveryCity    = "deliveryCity"
	MetaDeliveryPhone   = "deliveryPhone"
)
