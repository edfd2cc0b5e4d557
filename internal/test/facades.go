package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmcastano/payflow/internal/adapter/wompi"
	"github.com/jmcastano/payflow/internal/domain/model"
	"github.com/jmcastano/payflow/internal/usecase"
)

// PaymentFacadeStub provides controllable behaviour for the payment endpoint.
type PaymentFacadeStub struct {
	CreateTransactionFn func(context.Context, string, usecase.DeliveryDetails) (*usecase.PaymentOutcome, error)
}

// CreateTransaction delegates to the provided function or returns a default outcome.
func (s PaymentFacadeStub) CreateTransaction(ctx context.Context, productID string, details usecase.DeliveryDetails) (*usecase.PaymentOutcome, error) {
	if s.CreateTransactionFn != nil {
		return s.CreateTransactionFn(ctx, productID, details)
	}
	return &usecase.PaymentOutcome{
		Order:                &model.Order{ID: "ORDER-1-" + productID, Status: model.OrderStatusPending},
		GatewayTransactionID: "wompi-tx-1",
		RedirectURL:          "http://localhost:5173/payment-status",
	}, nil
}

// WebhookFacadeStub simulates event verification and reconciliation.
type WebhookFacadeStub struct {
	ApplyFn func(context.Context, *model.WebhookEvent) (*model.Order, error)
	Events  []*model.WebhookEvent
	mu      sync.Mutex
}

// ApplyWebhookEvent records the event and delegates to the override.
func (s *WebhookFacadeStub) ApplyWebhookEvent(ctx context.Context, event *model.WebhookEvent) (*model.Order, error) {
	s.mu.Lock()
	s.Events = append(s.Events, event)
	s.mu.Unlock()
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, event)
	}
	return &model.Order{ID: event.Transaction.Reference, Status: model.NormalizeStatus(event.Transaction.Status)}, nil
}

// OrderFacadeStub provides controllable behaviour for order lookups.
type OrderFacadeStub struct {
	ByIDFn      func(context.Context, string) (*model.Order, error)
	ByGatewayFn func(context.Context, string) (*model.Order, error)
}

// OrderByID delegates to provided function or returns a default order.
func (s OrderFacadeStub) OrderByID(ctx context.Context, id string) (*model.Order, error) {
	if s.ByIDFn != nil {
		return s.ByIDFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusPending}, nil
}

// OrderByGatewayTransactionID delegates to provided function or returns a default order.
func (s OrderFacadeStub) OrderByGatewayTransactionID(ctx context.Context, gatewayTxID string) (*model.Order, error) {
	if s.ByGatewayFn != nil {
		return s.ByGatewayFn(ctx, gatewayTxID)
	}
	id := gatewayTxID
	return &model.Order{ID: "ORDER-1", GatewayTransactionID: &id, Status: model.OrderStatusApproved}, nil
}

// CatalogFacadeStub serves preconfigured catalog data.
type CatalogFacadeStub struct {
	ProductsFn      func(context.Context) ([]model.Product, error)
	ProductFn       func(context.Context, string) (*model.Product, error)
	CreateProductFn func(context.Context, *model.Product) (*model.Product, error)
	CustomersFn     func(context.Context) ([]model.Customer, error)
	DeliveriesFn    func(context.Context) ([]model.Delivery, error)
}

// Products returns configured products or a single default entry.
func (s CatalogFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx)
	}
	return []model.Product{{ID: "p1", Name: "Keyboard", Price: 2500, Stock: 3}}, nil
}

// Product returns the configured product.
func (s CatalogFacadeStub) Product(ctx context.Context, id string) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id, Name: "Keyboard", Price: 2500, Stock: 3}, nil
}

// CreateProduct echoes the product back.
func (s CatalogFacadeStub) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, product)
	}
	return product, nil
}

// Customers returns configured customers.
func (s CatalogFacadeStub) Customers(ctx context.Context) ([]model.Customer, error) {
	if s.CustomersFn != nil {
		return s.CustomersFn(ctx)
	}
	return []model.Customer{{ID: "c1", Email: "ana@example.com"}}, nil
}

// Deliveries returns configured deliveries.
func (s CatalogFacadeStub) Deliveries(ctx context.Context) ([]model.Delivery, error) {
	if s.DeliveriesFn != nil {
		return s.DeliveriesFn(ctx)
	}
	return []model.Delivery{{ID: "d1", OrderID: "ORDER-1", Status: model.DeliveryStatusPendingShipment}}, nil
}

// CheckoutFacadeStub aggregates the per-endpoint stubs for router tests.
type CheckoutFacadeStub struct {
	PaymentFacadeStub
	*WebhookFacadeStub
	OrderFacadeStub
	CatalogFacadeStub
}

// NewCheckoutFacadeStub constructs the aggregate with default behaviour.
func NewCheckoutFacadeStub() *CheckoutFacadeStub {
	return &CheckoutFacadeStub{WebhookFacadeStub: &WebhookFacadeStub{}}
}

// StatusApplication stores information about ApplyTransactionStatus invocations.
type StatusApplication struct {
	OrderID     string
	Status      model.OrderStatus
	GatewayTxID *string
}

// SweeperFacadeStub mimics sweeper interactions with the checkout facade.
type SweeperFacadeStub struct {
	Batches       [][]model.Order
	StaleFn       func(context.Context, time.Duration, int) ([]model.Order, error)
	CheckFn       func(context.Context, string) (*wompi.TransactionResult, error)
	ApplyFn       func(context.Context, string, model.OrderStatus, *string) (*model.Order, error)
	Applications  []StatusApplication
	mu            sync.Mutex
	staleCallsSeq int32
}

// Lock exposes internal mutex for external synchronization.
func (s *SweeperFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *SweeperFacadeStub) Unlock() { s.mu.Unlock() }

// StalePendingOrders returns batches from the configured queue.
func (s *SweeperFacadeStub) StalePendingOrders(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	if s.StaleFn != nil {
		return s.StaleFn(ctx, olderThan, limit)
	}
	call := atomic.AddInt32(&s.staleCallsSeq, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// CheckTransaction returns configured gateway data.
func (s *SweeperFacadeStub) CheckTransaction(ctx context.Context, gatewayTxID string) (*wompi.TransactionResult, error) {
	if s.CheckFn != nil {
		return s.CheckFn(ctx, gatewayTxID)
	}
	return &wompi.TransactionResult{ID: gatewayTxID, Status: "APPROVED"}, nil
}

// ApplyTransactionStatus records reconciliation requests.
func (s *SweeperFacadeStub) ApplyTransactionStatus(ctx context.Context, orderID string, status model.OrderStatus, gatewayTxID *string) (*model.Order, error) {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, orderID, status, gatewayTxID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Applications = append(s.Applications, StatusApplication{OrderID: orderID, Status: status, GatewayTxID: gatewayTxID})
	return &model.Order{ID: orderID, Status: status}, nil
}

// GatewayStub implements the gateway client for tests.
type GatewayStub struct {
	AcceptanceFn func(context.Context) (string, error)
	TokenizeFn   func(context.Context, wompi.Card) (string, error)
	CreateFn     func(context.Context, wompi.TransactionRequest) (*wompi.TransactionResult, error)
	GetFn        func(context.Context, string) (*wompi.TransactionResult, error)
}

// AcceptanceToken returns a fixed token unless overridden.
func (s GatewayStub) AcceptanceToken(ctx context.Context) (string, error) {
	if s.AcceptanceFn != nil {
		return s.AcceptanceFn(ctx)
	}
	return "acceptance-token", nil
}

// TokenizeCard returns a fixed card token unless overridden.
func (s GatewayStub) TokenizeCard(ctx context.Context, card wompi.Card) (string, error) {
	if s.TokenizeFn != nil {
		return s.TokenizeFn(ctx, card)
	}
	return "tok_test_1", nil
}

// CreateTransaction returns a pending transaction unless overridden.
func (s GatewayStub) CreateTransaction(ctx context.Context, req wompi.TransactionRequest) (*wompi.TransactionResult, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return &wompi.TransactionResult{ID: "wompi-tx-1", Status: "PENDING", Reference: req.Reference}, nil
}

// GetTransaction returns an approved transaction unless overridden.
func (s GatewayStub) GetTransaction(ctx context.Context, id string) (*wompi.TransactionResult, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &wompi.TransactionResult{ID: id, Status: "APPROVED"}, nil
}
