package repository

import (
	"context"
	"time"

	"github.com/jmcastano/payflow/internal/domain/model"
)

// OrderRepository describes persistence operations for orders.
//
// UpdateStatus must serialize concurrent calls for the same order id and
// report the status the order held before the update, so callers can gate
// once-only side effects on the observed transition.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByGatewayTransactionID(ctx context.Context, gatewayTxID string) (*model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, gatewayTxID *string) (*model.Order, model.OrderStatus, error)
	SelectStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error)
}
