package handlers

import (
	"context"

	"github.com/jmcastano/payflow/internal/domain/model"
	"github.com/jmcastano/payflow/internal/usecase"
)

// PaymentFacade initiates gateway transactions.
type PaymentFacade interface {
	CreateTransaction(ctx context.Context, productID string, details usecase.DeliveryDetails) (*usecase.PaymentOutcome, error)
}

// WebhookFacade verifies and applies inbound gateway events.
type WebhookFacade interface {
	ApplyWebhookEvent(ctx context.Context, event *model.WebhookEvent) (*model.Order, error)
}

// OrderFacade exposes order lookups.
type OrderFacade interface {
	OrderByID(ctx context.Context, id string) (*model.Order, error)
	OrderByGatewayTransactionID(ctx context.Context, gatewayTxID string) (*model.Order, error)
}

// CatalogFacade exposes the product catalog and fulfillment registries.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	Customers(ctx context.Context) ([]model.Customer, error)
	Deliveries(ctx context.Context) ([]model.Delivery, error)
}

// CheckoutFacade aggregates the full set of operations used across handlers.
type CheckoutFacade interface {
	PaymentFacade
	WebhookFacade
	OrderFacade
	CatalogFacade
}
