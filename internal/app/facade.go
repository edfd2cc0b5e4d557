package app

import (
	"context"
	"time"

	"github.com/jmcastano/payflow/internal/adapter/wompi"
	"github.com/jmcastano/payflow/internal/domain/model"
	"github.com/jmcastano/payflow/internal/pkg/signature"
	"github.com/jmcastano/payflow/internal/usecase"
)

// CheckoutFacade is the application surface consumed by the HTTP handlers and
// the pending-order sweeper.
type CheckoutFacade struct {
	products   *usecase.ProductUseCase
	orders     *usecase.OrderUseCase
	payments   *usecase.PaymentUseCase
	customers  *usecase.CustomerUseCase
	deliveries *usecase.DeliveryUseCase
	verifier   *signature.Verifier
	gateway    wompi.Client
}

func NewCheckoutFacade(
	products *usecase.ProductUseCase,
	orders *usecase.OrderUseCase,
	payments *usecase.PaymentUseCase,
	customers *usecase.CustomerUseCase,
	deliveries *usecase.DeliveryUseCase,
	verifier *signature.Verifier,
	gateway wompi.Client,
) *CheckoutFacade {
	return &CheckoutFacade{
		products:   products,
		orders:     orders,
		payments:   payments,
		customers:  customers,
		deliveries: deliveries,
		verifier:   verifier,
		gateway:    gateway,
	}
}

func (f *CheckoutFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.products.List(ctx)
}

func (f *CheckoutFacade) Product(ctx context.Context, id string) (*model.Product, error) {
	return f.products.Get(ctx, id)
}

func (f *CheckoutFacade) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	return f.products.Create(ctx, product)
}

func (f *CheckoutFacade) CreateTransaction(ctx context.Context, productID string, details usecase.DeliveryDetails) (*usecase.PaymentOutcome, error) {
	return f.payments.CreateTransaction(ctx, productID, details)
}

// ApplyWebhookEvent verifies the event checksum and reconciles it onto the
// referenced order. Unknown event types return (nil, nil).
func (f *CheckoutFacade) ApplyWebhookEvent(ctx context.Context, event *model.WebhookEvent) (*model.Order, error) {
	if err := f.verifier.Verify(event); err != nil {
		return nil, err
	}
	return f.orders.ApplyTransactionUpdate(ctx, event)
}

func (f *CheckoutFacade) OrderByID(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.GetByID(ctx, id)
}

func (f *CheckoutFacade) OrderByGatewayTransactionID(ctx context.Context, gatewayTxID string) (*model.Order, error) {
	return f.orders.GetByGatewayTransactionID(ctx, gatewayTxID)
}

func (f *CheckoutFacade) StalePendingOrders(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	return f.orders.StalePending(ctx, olderThan, limit)
}

func (f *CheckoutFacade) ApplyTransactionStatus(ctx context.Context, orderID string, status model.OrderStatus, gatewayTxID *string) (*model.Order, error) {
	return f.orders.ApplyStatus(ctx, orderID, status, gatewayTxID)
}

func (f *CheckoutFacade) CheckTransaction(ctx context.Context, gatewayTxID string) (*wompi.TransactionResult, error) {
	return f.gateway.GetTransaction(ctx, gatewayTxID)
}

func (f *CheckoutFacade) Customers(ctx context.Context) ([]model.Customer, error) {
	return f.customers.List(ctx)
}

func (f *CheckoutFacade) Deliveries(ctx context.Context) ([]model.Delivery, error) {
	return f.deliveries.List(ctx)
}
