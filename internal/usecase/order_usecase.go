package usecase

import (
	"context"

	"dinein/internal/domain/entity"
)

// OrderUsecase reads the customer's order history.
type OrderUsecase interface {
	List(ctx context.Context) ([]entity.Order, error)
	Get(ctx context.Context, orderID string) (*entity.Order, error)
}
