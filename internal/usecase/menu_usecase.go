package usecase

import (
	"context"

	"dinein/internal/domain/entity"
)

// MenuUsecase serves the restaurant menu for the bound table.
type MenuUsecase interface {
	Browse(ctx context.Context, search string) (*entity.MenuView, error)
	Product(ctx context.Context, productID string) (*entity.Product, error)
}
