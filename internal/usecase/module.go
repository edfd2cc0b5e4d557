package usecase

import (
	"go.uber.org/fx"

	"github.com/jmcastano/payflow/internal/config"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(
		NewProductUseCase,
		NewOrderUseCase,
		NewPaymentUseCase,
		NewCustomerUseCase,
		NewDeliveryUseCase,
	),
	fx.Provide(newPaymentConfig),
)

func newPaymentConfig(cfg *config.Config) PaymentConfig {
	return PaymentConfig{
		Currency:         cfg.Wompi.Currency,
		MinAmountInCents: cfg.Wompi.MinAmountInCents,
		RedirectURL:      cfg.FrontendBaseURL + "/payment-status",
	}
}
