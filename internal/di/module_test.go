package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jmcastano/payflow/internal/adapter/wompi"
	"github.com/jmcastano/payflow/internal/app"
	"github.com/jmcastano/payflow/internal/config"
	"github.com/jmcastano/payflow/internal/domain/repository"
	"github.com/jmcastano/payflow/internal/storage/postgres"
	"github.com/jmcastano/payflow/internal/test"
	"go.uber.org/fx"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:      ":0",
		DatabaseURI:     "postgres://stub",
		FrontendBaseURL: "http://localhost:5173",
		Wompi: config.WompiConfig{
			PublicKey:        "pub_test",
			PrivateKey:       "prv_test",
			IntegrityKey:     "integrity",
			EventsSecret:     "events",
			BaseURL:          "http://localhost",
			Currency:         "COP",
			MinAmountInCents: 150000,
		},
		SweepInterval:   time.Millisecond,
		PendingOrderTTL: time.Minute,
		SweepBatchSize:  1,
		WorkerPoolSize:  1,
		ShutdownTimeout: time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	productRepo := test.NewProductRepositoryStub()
	orderRepo := test.NewOrderRepositoryStub()
	customerRepo := test.NewCustomerRepositoryStub()
	deliveryRepo := test.NewDeliveryRepositoryStub()
	gatewayStub := test.GatewayStub{}

	var facade *app.CheckoutFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.ProductRepository(productRepo)),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(repository.CustomerRepository(customerRepo)),
			fx.Replace(repository.DeliveryRepository(deliveryRepo)),
			fx.Replace(wompi.Client(gatewayStub)),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected checkout facade instance")
	}
}
