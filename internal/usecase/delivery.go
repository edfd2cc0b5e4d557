package usecase

import (
	"context"

	"github.com/jmcastano/payflow/internal/domain/model"
	"github.com/jmcastano/payflow/internal/domain/repository"
)

// DeliveryUseCase exposes read access to delivery records.
type DeliveryUseCase struct {
	deliveries repository.DeliveryRepository
}

// NewDeliveryUseCase constructs DeliveryUseCase.
func NewDeliveryUseCase(deliveries repository.DeliveryRepository) *DeliveryUseCase {
	return &DeliveryUseCase{deliveries: deliveries}
}

// List returns all delivery records.
func (u *DeliveryUseCase) List(ctx context.Context) ([]model.Delivery, error) {
	return u.deliveries.List(ctx)
}
