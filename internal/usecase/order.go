package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/jmcastano/payflow/internal/domain/errors"
	"github.com/jmcastano/payflow/internal/domain/model"
	"github.com/jmcastano/payflow/internal/domain/repository"
)

func isNotFound(err error) bool {
	return errors.Is(err, domainErrors.ErrNotFound)
}

// Each approved order purchases exactly one unit; multi-quantity orders are
// not modeled.
const purchaseQuantity = 1

// approvalSources is the transition table for side effects: an order entering
// APPROVED from any of these statuses fires the approval side effects exactly
// once. Re-applying APPROVED to an already approved order matches no edge.
var approvalSources = map[model.OrderStatus]struct{}{
	model.OrderStatusPending:  {},
	model.OrderStatusDeclined: {},
	model.OrderStatusVoided:   {},
	model.OrderStatusError:    {},
}

// OrderUseCase reconciles gateway transaction updates onto local orders and
// runs the approval side effects behind the transition gate.
type OrderUseCase struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	customers  repository.CustomerRepository
	deliveries repository.DeliveryRepository
	logger     *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	deliveries repository.DeliveryRepository,
	logger *slog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:     orders,
		products:   products,
		customers:  customers,
		deliveries: deliveries,
		logger:     logger,
	}
}

// ApplyStatus transitions an order to the given status, stamping the gateway
// transaction id when supplied. The repository serializes concurrent calls for
// the same order and reports the previous status, so the side-effect gate
// opens at most once per order even under duplicate event delivery.
//
// Side effects are best effort: failures are logged and the order keeps its
// APPROVED status, leaving reconciliation to operators.
func (u *OrderUseCase) ApplyStatus(ctx context.Context, orderID string, status model.OrderStatus, gatewayTxID *string) (*model.Order, error) {
	order, previous, err := u.orders.UpdateStatus(ctx, orderID, status, gatewayTxID)
	if err != nil {
		return nil, err
	}

	if _, fires := approvalSources[previous]; fires && status == model.OrderStatusApproved {
		u.runApprovalSideEffects(ctx, order)
	}

	return order, nil
}

// ApplyTransactionUpdate routes a verified webhook event into ApplyStatus.
// Only transaction.updated events are modeled; anything else is ignored so
// at-least-once delivery of unknown events never errors.
func (u *OrderUseCase) ApplyTransactionUpdate(ctx context.Context, event *model.WebhookEvent) (*model.Order, error) {
	if event.Event != model.EventTransactionUpdated {
		u.logger.Info("ignoring unhandled webhook event", slog.String("event", event.Event))
		return nil, nil
	}

	status := model.NormalizeStatus(event.Transaction.Status)
	txID := event.Transaction.ID
	return u.ApplyStatus(ctx, event.Transaction.Reference, status, &txID)
}

// GetByID returns the order with the given reference.
func (u *OrderUseCase) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// GetByGatewayTransactionID returns the order stamped with the gateway id.
// Pure read used by the client polling loop.
func (u *OrderUseCase) GetByGatewayTransactionID(ctx context.Context, gatewayTxID string) (*model.Order, error) {
	return u.orders.GetByGatewayTransactionID(ctx, gatewayTxID)
}

// StalePending returns PENDING orders untouched for longer than olderThan.
func (u *OrderUseCase) StalePending(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	return u.orders.SelectStalePending(ctx, olderThan, limit)
}

func (u *OrderUseCase) runApprovalSideEffects(ctx context.Context, order *model.Order) {
	customerID := ""

	tasks := []struct {
		name string
		run  func() error
	}{
		{"decrease stock", func() error {
			return u.products.DecreaseStock(ctx, order.ProductID, purchaseQuantity)
		}},
		{"upsert customer", func() error {
			customer, err := u.upsertCustomer(ctx, order)
			if err != nil {
				return err
			}
			if customer != nil {
				customerID = customer.ID
			}
			return nil
		}},
		{"create delivery", func() error {
			return u.createDelivery(ctx, order, customerID)
		}},
	}

	for _, task := range tasks {
		if err := task.run(); err != nil {
			u.logger.Error("approval side effect failed",
				slog.String("task", task.name),
				slog.String("order", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (u *OrderUseCase) upsertCustomer(ctx context.Context, order *model.Order) (*model.Customer, error) {
	if order.CustomerEmail == nil || *order.CustomerEmail == "" {
		u.logger.Warn("approved order has no customer email", slog.String("order", order.ID))
		return nil, nil
	}

	email := *order.CustomerEmail
	customer, err := u.customers.GetByEmail(ctx, email)
	if err == nil {
		return customer, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	return u.customers.Create(ctx, &model.Customer{
		ID:    uuid.NewString(),
		Name:  order.Metadata[model.MetaDeliveryName],
		Email: email,
		Phone: order.Metadata[model.MetaDeliveryPhone],
	})
}

func (u *OrderUseCase) createDelivery(ctx context.Context, order *model.Order, customerID string) error {
	_, _, err := u.deliveries.Create(ctx, &model.Delivery{
		ID:           uuid.NewString(),
		OrderID:      order.ID,
		CustomerID:   customerID,
		CustomerName: order.Metadata[model.MetaDeliveryName],
		Address:      order.Metadata[model.MetaDeliveryAddress],
		City:         order.Metadata[model.MetaDeliveryCity],
		Phone:        order.Metadata[model.MetaDeliveryPhone],
		Status:       model.DeliveryStatusPendingShipment,
	})
	return err
}
