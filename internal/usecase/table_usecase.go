package usecase

import (
	"context"

	"dinein/internal/domain/entity"
)

// TableUsecase reconciles route and stored table identifiers into one bind.
type TableUsecase interface {
	// Remember stores identifier as the pending table marker.
	Remember(ctx context.Context, identifier string) error

	// Pending returns the stored pending identifier, or "".
	Pending(ctx context.Context) string

	// Bind binds routeID when given, else the pending marker. It returns
	// (nil, nil) when there is nothing to bind.
	Bind(ctx context.Context, routeID string) (*entity.TableSession, error)

	// Scan decodes a QR payload and binds the table it names.
	Scan(ctx context.Context, payload string) (*entity.TableSession, error)

	// Checkout ends the table session and clears the cart.
	Checkout(ctx context.Context) error
}
