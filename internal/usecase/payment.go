package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jmcastano/payflow/internal/adapter/wompi"
	"github.com/jmcastano/payflow/internal/domain/model"
	"github.com/jmcastano/payflow/internal/domain/repository"
)

// Fallback used when the checkout form omits the buyer email, matching the
// behavior of the sandbox flows this service was built against.
const defaultCustomerEmail = "cliente@example.com"

// DeliveryDetails carries the checkout form fields for a payment attempt.
type DeliveryDetails struct {
	Name          string
	Address       string
	City          string
	Phone         string
	CustomerEmail string
	Card          wompi.Card
}

// PaymentConfig is the policy injected into the initiator.
type PaymentConfig struct {
	Currency         string
	MinAmountInCents int64
	RedirectURL      string
}

// PaymentOutcome reports a successfully initiated transaction.
type PaymentOutcome struct {
	Order                *model.Order
	GatewayTransactionID string
	RedirectURL          string
}

// PaymentUseCase initiates gateway transactions. The local order is persisted
// in PENDING before the gateway is contacted, so a crash mid-flight leaves a
// recoverable order rather than an untracked charge. All status writes after
// creation go through the reconciler, which owns the side-effect gate.
type PaymentUseCase struct {
	products   repository.ProductRepository
	orders     repository.OrderRepository
	reconciler *OrderUseCase
	gateway    wompi.Client
	cfg        PaymentConfig
	logger     *slog.Logger

	now func() time.Time
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	reconciler *OrderUseCase,
	gateway wompi.Client,
	cfg PaymentConfig,
	logger *slog.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		products:   products,
		orders:     orders,
		reconciler: reconciler,
		gateway:    gateway,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateTransaction resolves the product, persists a PENDING order and creates
// the gateway transaction. On gateway failure the order is marked ERROR and
// the failure propagates; retrying produces a brand-new order reference.
func (u *PaymentUseCase) CreateTransaction(ctx context.Context, productID string, details DeliveryDetails) (*PaymentOutcome, error) {
	product, err := u.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	amountInCents := int64(math.Round(product.Price * 100))
	if amountInCents < u.cfg.MinAmountInCents {
		// Below-minimum purchases are raised to the gateway floor so sandbox
		// flows keep working. Production should reject instead.
		u.logger.Warn("amount below gateway minimum, clamping",
			slog.Int64("amount_in_cents", amountInCents),
			slog.Int64("minimum", u.cfg.MinAmountInCents),
		)
		amountInCents = u.cfg.MinAmountInCents
	}

	reference := fmt.Sprintf("ORDER-%d-%s", u.now().UnixMilli(), product.ID)

	email := details.CustomerEmail
	if email == "" {
		email = defaultCustomerEmail
	}

	order, err := u.orders.Create(ctx, &model.Order{
		ID:            reference,
		ProductID:     product.ID,
		AmountInCents: amountInCents,
		Status:        model.OrderStatusPending,
		CustomerEmail: &email,
		Metadata: map[string]string{
			model.MetaDeliveryName:    details.Name,
			model.MetaDeliveryAddress: details.Address,
			model.MetaDeliveryCity:    details.City,
			model.MetaDeliveryPhone:   details.Phone,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create local order: %w", err)
	}

	card := details.Card
	card.Holder = details.Name
	cardToken, err := u.gateway.TokenizeCard(ctx, card)
	if err != nil {
		return nil, u.failOrder(ctx, order, err)
	}

	result, err := u.gateway.CreateTransaction(ctx, wompi.TransactionRequest{
		Reference:     reference,
		AmountInCents: amountInCents,
		CustomerEmail: email,
		RedirectURL:   u.cfg.RedirectURL,
		CardToken:     cardToken,
		Metadata: map[string]string{
			"productId":       product.ID,
			"productName":     product.Name,
			"deliveryName":    details.Name,
			"deliveryAddress": details.Address,
			"deliveryCity":    details.City,
			"deliveryPhone":   details.Phone,
		},
	})
	if err != nil {
		return nil, u.failOrder(ctx, order, err)
	}

	// Stamping the gateway id immediately closes the window during which the
	// order cannot be correlated with the transaction. The stamp goes through
	// the reconciler: when the gateway answers with a final status
	// synchronously, the approval side effects must fire here, and later
	// webhook redeliveries must see the gate already closed.
	updated, err := u.reconciler.ApplyStatus(ctx, order.ID, model.NormalizeStatus(result.Status), &result.ID)
	if err != nil {
		u.logger.Error("failed to stamp gateway transaction id",
			slog.String("order", order.ID),
			slog.String("gateway_tx", result.ID),
			slog.String("error", err.Error()),
		)
		updated = order
	}

	return &PaymentOutcome{
		Order:                updated,
		GatewayTransactionID: result.ID,
		RedirectURL:          result.RedirectURL,
	}, nil
}

// failOrder marks the order errored before propagating the gateway failure.
// The marking itself is best effort.
func (u *PaymentUseCase) failOrder(ctx context.Context, order *model.Order, cause error) error {
	if _, err := u.reconciler.ApplyStatus(ctx, order.ID, model.OrderStatusError, nil); err != nil {
		u.logger.Error("failed to mark order as errored",
			slog.String("order", order.ID),
			slog.String("error", err.Error()),
		)
	}
	return fmt.Errorf("gateway transaction for order %s: %w", order.ID, cause)
}
