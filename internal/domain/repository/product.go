package repository

import (
	"context"

	"github.com/jmcastano/payflow/internal/domain/model"
)

// ProductRepository describes persistence operations for catalog products.
//
// DecreaseStock is atomic at the row level: it fails with
// errors.ErrInsufficientStock and leaves the counter unchanged when the
// requested quantity exceeds the available stock.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	DecreaseStock(ctx context.Context, id string, quantity int) error
}
