package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jmcastano/payflow/internal/adapter/wompi"
	domainErrors "github.com/jmcastano/payflow/internal/domain/errors"
	"github.com/jmcastano/payflow/internal/domain/model"
)

type stubGateway struct {
	acceptanceFn func(context.Context) (string, error)
	tokenizeFn   func(context.Context, wompi.Card) (string, error)
	createFn     func(context.Context, wompi.TransactionRequest) (*wompi.TransactionResult, error)
	getFn        func(context.Context, string) (*wompi.TransactionResult, error)

	lastRequest wompi.TransactionRequest
}

func (s *stubGateway) AcceptanceToken(ctx context.Context) (string, error) {
	if s.acceptanceFn == nil {
		return "acceptance-token", nil
	}
	return s.acceptanceFn(ctx)
}

func (s *stubGateway) TokenizeCard(ctx context.Context, card wompi.Card) (string, error) {
	if s.tokenizeFn == nil {
		return "tok_test_1", nil
	}
	return s.tokenizeFn(ctx, card)
}

func (s *stubGateway) CreateTransaction(ctx context.Context, req wompi.TransactionRequest) (*wompi.TransactionResult, error) {
	s.lastRequest = req
	if s.createFn == nil {
		return &wompi.TransactionResult{ID: "wompi-tx-1", Status: "PENDING", Reference: req.Reference}, nil
	}
	return s.createFn(ctx, req)
}

func (s *stubGateway) GetTransaction(ctx context.Context, id string) (*wompi.TransactionResult, error) {
	if s.getFn == nil {
		panic("not implemented")
	}
	return s.getFn(ctx, id)
}

func paymentFixture(products *stubProductRepository, orders *stubOrderRepository, gateway *stubGateway) *PaymentUseCase {
	reconciler := newReconciler(orders, products, &stubCustomerRepository{}, &stubDeliveryRepository{})
	return paymentFixtureWith(products, orders, reconciler, gateway)
}

func paymentFixtureWith(products *stubProductRepository, orders *stubOrderRepository, reconciler *OrderUseCase, gateway *stubGateway) *PaymentUseCase {
	uc := NewPaymentUseCase(products, orders, reconciler, gateway, PaymentConfig{
		Currency:         "COP",
		MinAmountInCents: 150000,
		RedirectURL:      "http://localhost:5173/payment-status",
	}, testLogger())
	uc.now = func() time.Time { return time.UnixMilli(1712000000000) }
	return uc
}

func recordingOrders() *stubOrderRepository {
	var created *model.Order
	repo := &stubOrderRepository{}
	repo.createFn = func(_ context.Context, order *model.Order) (*model.Order, error) {
		created = order
		return order, nil
	}
	repo.updateStatusFn = func(_ context.Context, id string, status model.OrderStatus, txID *string) (*model.Order, model.OrderStatus, error) {
		if created == nil || created.ID != id {
			return nil, "", domainErrors.ErrNotFound
		}
		previous := created.Status
		created.Status = status
		if txID != nil {
			created.GatewayTransactionID = txID
		}
		return created, previous, nil
	}
	return repo
}

func TestCreateTransactionUnknownProduct(t *testing.T) {
	products := &stubProductRepository{
		getByIDFn: func(context.Context, string) (*model.Product, error) {
			return nil, domainErrors.ErrNotFound
		},
	}
	orders := &stubOrderRepository{
		createFn: func(context.Context, *model.Order) (*model.Order, error) {
			t.Fatal("no order must be created for an unknown product")
			return nil, nil
		},
	}
	uc := paymentFixture(products, orders, &stubGateway{})

	if _, err := uc.CreateTransaction(context.Background(), "ghost", DeliveryDetails{}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateTransactionHappyPath(t *testing.T) {
	products := &stubProductRepository{
		getByIDFn: func(_ context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Name: "Keyboard", Price: 2500, Stock: 3}, nil
		},
	}
	orders := recordingOrders()
	gateway := &stubGateway{}
	uc := paymentFixture(products, orders, gateway)

	outcome, err := uc.CreateTransaction(context.Background(), "p1", DeliveryDetails{
		Name:          "Ana Gomez",
		Address:       "Calle 1 # 2-3",
		City:          "Bogota",
		Phone:         "3001234567",
		CustomerEmail: "ana@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantReference := fmt.Sprintf("ORDER-%d-p1", int64(1712000000000))
	if outcome.Order.ID != wantReference {
		t.Fatalf("expected reference %s, got %s", wantReference, outcome.Order.ID)
	}
	if outcome.GatewayTransactionID != "wompi-tx-1" {
		t.Fatalf("unexpected gateway id %s", outcome.GatewayTransactionID)
	}
	if outcome.Order.Status != model.OrderStatusPending {
		t.Fatalf("expected PENDING after gateway accepted, got %s", outcome.Order.Status)
	}
	if outcome.Order.GatewayTransactionID == nil || *outcome.Order.GatewayTransactionID != "wompi-tx-1" {
		t.Fatal("expected gateway id stamped on the order")
	}
	if gateway.lastRequest.AmountInCents != 250000 {
		t.Fatalf("expected price in cents, got %d", gateway.lastRequest.AmountInCents)
	}
	if gateway.lastRequest.CustomerEmail != "ana@example.com" {
		t.Fatalf("unexpected email %s", gateway.lastRequest.CustomerEmail)
	}
	if gateway.lastRequest.RedirectURL != "http://localhost:5173/payment-status" {
		t.Fatalf("unexpected redirect url %s", gateway.lastRequest.RedirectURL)
	}
}

func TestCreateTransactionSynchronousApprovalFiresSideEffects(t *testing.T) {
	products := &stubProductRepository{
		getByIDFn: func(_ context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Name: "Keyboard", Price: 2500, Stock: 3}, nil
		},
	}
	orders := recordingOrders()
	customers := &stubCustomerRepository{}
	deliveries := &stubDeliveryRepository{}
	reconciler := newReconciler(orders, products, customers, deliveries)
	gateway := &stubGateway{
		createFn: func(_ context.Context, req wompi.TransactionRequest) (*wompi.TransactionResult, error) {
			return &wompi.TransactionResult{ID: "wompi-tx-1", Status: "APPROVED", Reference: req.Reference}, nil
		},
	}
	uc := paymentFixtureWith(products, orders, reconciler, gateway)

	outcome, err := uc.CreateTransaction(context.Background(), "p1", DeliveryDetails{
		Name:          "Ana Gomez",
		Address:       "Calle 1 # 2-3",
		City:          "Bogota",
		Phone:         "3001234567",
		CustomerEmail: "ana@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Order.Status != model.OrderStatusApproved {
		t.Fatalf("expected APPROVED order, got %s", outcome.Order.Status)
	}
	if products.decrements != 1 {
		t.Fatalf("expected one stock decrement on synchronous approval, got %d", products.decrements)
	}
	if customers.creates != 1 || deliveries.creates != 1 {
		t.Fatalf("expected customer and delivery side effects, got %d %d", customers.creates, deliveries.creates)
	}

	// A redelivered APPROVED webhook finds the gate already closed.
	txID := "wompi-tx-1"
	if _, err := reconciler.ApplyStatus(context.Background(), outcome.Order.ID, model.OrderStatusApproved, &txID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if products.decrements != 1 || deliveries.creates != 1 {
		t.Fatalf("expected side effects exactly once, got %d decrements and %d deliveries",
			products.decrements, deliveries.creates)
	}
}

func TestCreateTransactionClampsToMinimum(t *testing.T) {
	products := &stubProductRepository{
		getByIDFn: func(_ context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Name: "Sticker", Price: 10, Stock: 100}, nil
		},
	}
	orders := recordingOrders()
	gateway := &stubGateway{}
	uc := paymentFixture(products, orders, gateway)

	outcome, err := uc.CreateTransaction(context.Background(), "p1", DeliveryDetails{Name: "Ana"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gateway.lastRequest.AmountInCents != 150000 {
		t.Fatalf("expected clamp to 150000, got %d", gateway.lastRequest.AmountInCents)
	}
	if outcome.Order.AmountInCents != 150000 {
		t.Fatalf("expected persisted clamped amount, got %d", outcome.Order.AmountInCents)
	}
}

func TestCreateTransactionDefaultsEmail(t *testing.T) {
	products := &stubProductRepository{
		getByIDFn: func(_ context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Price: 2000}, nil
		},
	}
	orders := recordingOrders()
	gateway := &stubGateway{}
	uc := paymentFixture(products, orders, gateway)

	outcome, err := uc.CreateTransaction(context.Background(), "p1", DeliveryDetails{Name: "Ana"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gateway.lastRequest.CustomerEmail != defaultCustomerEmail {
		t.Fatalf("expected fallback email, got %s", gateway.lastRequest.CustomerEmail)
	}
	if outcome.Order.CustomerEmail == nil || *outcome.Order.CustomerEmail != defaultCustomerEmail {
		t.Fatal("expected fallback email persisted on the order")
	}
}

func TestCreateTransactionTokenizeFailureMarksOrderErrored(t *testing.T) {
	products := &stubProductRepository{
		getByIDFn: func(_ context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Price: 2000}, nil
		},
	}
	var statuses []model.OrderStatus
	orders := &stubOrderRepository{
		createFn: func(_ context.Context, order *model.Order) (*model.Order, error) {
			return order, nil
		},
		updateStatusFn: func(_ context.Context, id string, status model.OrderStatus, _ *string) (*model.Order, model.OrderStatus, error) {
			statuses = append(statuses, status)
			return &model.Order{ID: id, Status: status}, model.OrderStatusPending, nil
		},
	}
	gateway := &stubGateway{
		tokenizeFn: func(context.Context, wompi.Card) (string, error) {
			return "", fmt.Errorf("tokenize card: %w", domainErrors.ErrGatewayFailure)
		},
	}
	uc := paymentFixture(products, orders, gateway)

	_, err := uc.CreateTransaction(context.Background(), "p1", DeliveryDetails{Name: "Ana"})
	if !errors.Is(err, domainErrors.ErrGatewayFailure) {
		t.Fatalf("expected gateway failure, got %v", err)
	}
	if len(statuses) != 1 || statuses[0] != model.OrderStatusError {
		t.Fatalf("expected a single ERROR status write, got %v", statuses)
	}
}

func TestCreateTransactionGatewayFailureMarksOrderErrored(t *testing.T) {
	products := &stubProductRepository{
		getByIDFn: func(_ context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Price: 2000}, nil
		},
	}

	var statuses []model.OrderStatus
	orders := &stubOrderRepository{
		createFn: func(_ context.Context, order *model.Order) (*model.Order, error) {
			return order, nil
		},
		updateStatusFn: func(_ context.Context, id string, status model.OrderStatus, _ *string) (*model.Order, model.OrderStatus, error) {
			statuses = append(statuses, status)
			return &model.Order{ID: id, Status: status}, model.OrderStatusPending, nil
		},
	}
	gateway := &stubGateway{
		createFn: func(context.Context, wompi.TransactionRequest) (*wompi.TransactionResult, error) {
			return nil, fmt.Errorf("create transaction: %w", domainErrors.ErrGatewayFailure)
		},
	}
	uc := paymentFixture(products, orders, gateway)

	_, err := uc.CreateTransaction(context.Background(), "p1", DeliveryDetails{Name: "Ana"})
	if !errors.Is(err, domainErrors.ErrGatewayFailure) {
		t.Fatalf("expected gateway failure, got %v", err)
	}
	if len(statuses) != 1 || statuses[0] != model.OrderStatusError {
		t.Fatalf("expected a single ERROR status write, got %v", statuses)
	}
}

func TestCreateTransactionStampFailureFallsBackToCreatedOrder(t *testing.T) {
	products := &stubProductRepository{
		getByIDFn: func(_ context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Price: 2000}, nil
		},
	}
	orders := &stubOrderRepository{
		createFn: func(_ context.Context, order *model.Order) (*model.Order, error) {
			return order, nil
		},
		updateStatusFn: func(context.Context, string, model.OrderStatus, *string) (*model.Order, model.OrderStatus, error) {
			return nil, "", errors.New("connection reset")
		},
	}
	uc := paymentFixture(products, orders, &stubGateway{})

	outcome, err := uc.CreateTransaction(context.Background(), "p1", DeliveryDetails{Name: "Ana"})
	if err != nil {
		t.Fatalf("stamp failure must not fail the payment: %v", err)
	}
	if outcome.GatewayTransactionID != "wompi-tx-1" {
		t.Fatalf("expected gateway id in outcome, got %s", outcome.GatewayTransactionID)
	}
	if outcome.Order.Status != model.OrderStatusPending {
		t.Fatalf("expected the created PENDING order, got %s", outcome.Order.Status)
	}
}
