package service

import (
	"context"

	"dinein/internal/domain/entity"
)

// CartItemInput is the payload for adding a product to the server cart.
type CartItemInput struct {
	ProductID           string         `json:"productId"`
	Quantity            int            `json:"quantity"`
	Addons              []entity.Addon `json:"selectedAddons"`
	SpecialInstructions string         `json:"specialInstructions"`
}

// CustomerAPI is the remote ordering backend as seen by one customer device.
// Implementations classify failures into domain errors.
type CustomerAPI interface {
	SendOTP(ctx context.Context, phoneNumber string) (*entity.OTPRequest, error)
	VerifyOTP(ctx context.Context, phoneNumber, otp string) (token string, err error)
	GetProfile(ctx context.Context) (*entity.Customer, *entity.TableSession, error)
	UpdateProfile(ctx context.Context, name string) error
	ScanTable(ctx context.Context, identifier string) (*entity.TableSession, error)
	Checkout(ctx context.Context) error

	GetMenu(ctx context.Context) (*entity.Menu, error)

	// GetCart returns the server cart with the backend's own total.
	GetCart(ctx context.Context) (*entity.Cart, error)
	AddToCart(ctx context.Context, input CartItemInput) error
	UpdateCartItem(ctx context.Context, lineID string, quantity int) error
	RemoveCartItem(ctx context.Context, lineID string) error
	ClearCart(ctx context.Context) error

	PlaceOrder(ctx context.Context, specialInstructions string) (*entity.Order, error)
	ListOrders(ctx context.Context) ([]entity.Order, error)
	GetOrder(ctx context.Context, orderID string) (*entity.Order, error)
}
