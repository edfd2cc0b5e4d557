package repository

import (
	"context"

	"github.com/jmcastano/payflow/internal/domain/model"
)

// DeliveryRepository describes persistence operations for deliveries.
//
// Create reports whether a row was actually inserted: at most one delivery
// exists per order, and inserting a second one for the same order is a no-op.
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *model.Delivery) (*model.Delivery, bool, error)
	GetByOrderID(ctx context.Context, orderID string) (*model.Delivery, error)
	List(ctx context.Context) ([]model.Delivery, error)
}
