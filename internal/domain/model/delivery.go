package model

import "time"

// DeliveryStatus describes shipment progress.
type DeliveryStatus string

const (
	DeliveryStatusPendingShipment DeliveryStatus = "PENDING_SHIPMENT"
	DeliveryStatusShipped         DeliveryStatus = "SHIPPED"
	DeliveryStatusDelivered       DeliveryStatus = "DELIVERED"
	DeliveryStatusCanceled        DeliveryStatus = "CANCELED"
)

// Delivery is created exactly once per order, on the transition into APPROVED.
// Customer contact fields are denormalized from the order metadata.
type Delivery struct {
	ID           string
	OrderID      string
	CustomerID   string
	CustomerName string
	Address      string
	City         string
	Phone        string
	Status       DeliveryStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
