package usecase

import (
	"context"

	"github.com/jmcastano/payflow/internal/domain/model"
	"github.com/jmcastano/payflow/internal/domain/repository"
)

// CustomerUseCase exposes read access to the customer registry.
type CustomerUseCase struct {
	customers repository.CustomerRepository
}

// NewCustomerUseCase constructs CustomerUseCase.
func NewCustomerUseCase(customers repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customers: customers}
}

// List returns all registered customers.
func (u *CustomerUseCase) List(ctx context.Context) ([]model.Customer, error) {
	return u.customers.List(ctx)
}
