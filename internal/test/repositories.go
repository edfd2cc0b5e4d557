package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/jmcastano/payflow/internal/domain/errors"
	"github.com/jmcastano/payflow/internal/domain/model"
)

// ProductRepositoryStub stores products in-memory for tests.
type ProductRepositoryStub struct {
	Products map[string]*model.Product
	Err      error

	mu sync.Mutex
}

// NewProductRepositoryStub constructs stub repository with initialized map.
func NewProductRepositoryStub(products ...*model.Product) *ProductRepositoryStub {
	stub := &ProductRepositoryStub{Products: make(map[string]*model.Product)}
	for _, p := range products {
		stub.Products[p.ID] = p
	}
	return stub
}

// Create registers a product unless it already exists.
func (s *ProductRepositoryStub) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Products[product.ID]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	s.Products[product.ID] = product
	return product, nil
}

// GetByID fetches a product or returns not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if product, ok := s.Products[id]; ok {
		return product, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns all stored products.
func (s *ProductRepositoryStub) List(ctx context.Context) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make([]model.Product, 0, len(s.Products))
	for _, p := range s.Products {
		products = append(products, *p)
	}
	return products, nil
}

// DecreaseStock applies the conditional decrement the real store performs.
func (s *ProductRepositoryStub) DecreaseStock(ctx context.Context, id string, quantity int) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.Products[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if product.Stock < quantity {
		return domainErrors.ErrInsufficientStock
	}
	product.Stock -= quantity
	return nil
}

// OrderRepositoryStub allows tests to customize order behaviour.
type OrderRepositoryStub struct {
	CreateFn       func(context.Context, *model.Order) (*model.Order, error)
	GetByIDFn      func(context.Context, string) (*model.Order, error)
	GetByGatewayFn func(context.Context, string) (*model.Order, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus, *string) (*model.Order, model.OrderStatus, error)
	StalePendingFn func(context.Context, time.Duration, int) ([]model.Order, error)

	Orders map[string]*model.Order

	mu sync.Mutex
}

// NewOrderRepositoryStub constructs stub repository with initialized map.
func NewOrderRepositoryStub(orders ...*model.Order) *OrderRepositoryStub {
	stub := &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
	for _, o := range orders {
		stub.Orders[o.ID] = o
	}
	return stub
}

// Create stores the order unless the id is taken.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Orders[order.ID]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	s.Orders[order.ID] = order
	return order, nil
}

// GetByID fetches an order or returns not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.Orders[id]; ok {
		return order, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByGatewayTransactionID scans stored orders by stamped gateway id.
func (s *OrderRepositoryStub) GetByGatewayTransactionID(ctx context.Context, gatewayTxID string) (*model.Order, error) {
	if s.GetByGatewayFn != nil {
		return s.GetByGatewayFn(ctx, gatewayTxID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.Orders {
		if order.GatewayTransactionID != nil && *order.GatewayTransactionID == gatewayTxID {
			return order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateStatus transitions the stored order and reports the previous status.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, gatewayTxID *string) (*model.Order, model.OrderStatus, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status, gatewayTxID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return nil, "", domainErrors.ErrNotFound
	}
	previous := order.Status
	order.Status = status
	if gatewayTxID != nil {
		order.GatewayTransactionID = gatewayTxID
	}
	return order, previous, nil
}

// SelectStalePending returns pending orders regardless of age.
func (s *OrderRepositoryStub) SelectStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	if s.StalePendingFn != nil {
		return s.StalePendingFn(ctx, olderThan, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []model.Order
	for _, order := range s.Orders {
		if order.Status == model.OrderStatusPending && len(pending) < limit {
			pending = append(pending, *order)
		}
	}
	return pending, nil
}

// CustomerRepositoryStub stores customers keyed by email.
type CustomerRepositoryStub struct {
	CreateFn func(context.Context, *model.Customer) (*model.Customer, error)

	Customers map[string]*model.Customer

	mu sync.Mutex
}

// NewCustomerRepositoryStub constructs stub repository with initialized map.
func NewCustomerRepositoryStub() *CustomerRepositoryStub {
	return &CustomerRepositoryStub{Customers: make(map[string]*model.Customer)}
}

// Create stores the customer, mirroring the upsert-by-email semantics.
func (s *CustomerRepositoryStub) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, customer)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.Customers[customer.Email]; ok {
		return existing, nil
	}
	s.Customers[customer.Email] = customer
	return customer, nil
}

// GetByEmail fetches a customer or returns not found.
func (s *CustomerRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if customer, ok := s.Customers[email]; ok {
		return customer, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns all stored customers.
func (s *CustomerRepositoryStub) List(ctx context.Context) ([]model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customers := make([]model.Customer, 0, len(s.Customers))
	for _, c := range s.Customers {
		customers = append(customers, *c)
	}
	return customers, nil
}

// DeliveryRepositoryStub stores at most one delivery per order.
type DeliveryRepositoryStub struct {
	CreateFn func(context.Context, *model.Delivery) (*model.Delivery, bool, error)

	Deliveries map[string]*model.Delivery

	mu sync.Mutex
}

// NewDeliveryRepositoryStub constructs stub repository with initialized map.
func NewDeliveryRepositoryStub() *DeliveryRepositoryStub {
	return &DeliveryRepositoryStub{Deliveries: make(map[string]*model.Delivery)}
}

// Create inserts the delivery unless the order already has one.
func (s *DeliveryRepositoryStub) Create(ctx context.Context, delivery *model.Delivery) (*model.Delivery, bool, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, delivery)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.Deliveries[delivery.OrderID]; ok {
		return existing, false, nil
	}
	s.Deliveries[delivery.OrderID] = delivery
	return delivery, true, nil
}

// GetByOrderID fetches the delivery for an order or returns not found.
func (s *DeliveryRepositoryStub) GetByOrderID(ctx context.Context, orderID string) (*model.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if delivery, ok := s.Deliveries[orderID]; ok {
		return delivery, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns all stored deliveries.
func (s *DeliveryRepositoryStub) List(ctx context.Context) ([]model.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deliveries := make([]model.Delivery, 0, len(s.Deliveries))
	for _, d := range s.Deliveries {
		deliveries = append(deliveries, *d)
	}
	return deliveries, nil
}
